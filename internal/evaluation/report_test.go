package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stylefacet/tagger/internal/scoring"
)

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gold.csv")
	content := `product_id,gender,colour,item_type_level3,notes
p1,Men,Blue,Shirts,ignored column
p2,Women,Red,,
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("loaded %d rows, want 2", len(rows))
	}
	if rows["p1"][scoring.FieldColour] != "Blue" {
		t.Errorf("p1 colour = %q", rows["p1"][scoring.FieldColour])
	}
	if rows["p1"][scoring.FieldItemTypeLevel3] != "Shirts" {
		t.Errorf("p1 item_type_level3 = %q", rows["p1"][scoring.FieldItemTypeLevel3])
	}
	if rows["p2"][scoring.FieldItemTypeLevel3] != "" {
		t.Errorf("p2 item_type_level3 = %q, want empty", rows["p2"][scoring.FieldItemTypeLevel3])
	}
}

func TestLoadCSVMissingProductID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("colour\nBlue\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCSV(path); err == nil {
		t.Error("expected error for missing product_id column")
	}
}
