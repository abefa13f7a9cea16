package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stylefacet/tagger/internal/copywriter"
	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/scoring"
	"github.com/stylefacet/tagger/internal/vocab"
)

func assembledRecord(t *testing.T) *metadata.Record {
	t.Helper()
	assembler := metadata.NewAssembler(vocab.Default())
	record, err := assembler.Assemble("p1", metadata.AttributeMap{
		scoring.FieldGender:         {Value: "Men"},
		scoring.FieldItemTypeLevel1: {Value: "Apparel"},
		scoring.FieldItemTypeLevel2: {Value: "Topwear"},
		scoring.FieldItemTypeLevel3: {Value: "Shirts"},
		scoring.FieldColour:         {Value: "blue "},
	}, metadata.Overrides{})
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	return record
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []*metadata.Record{assembledRecord(t)}); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-reading CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}

	header, row := rows[0], rows[1]
	col := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %s missing", name)
		return ""
	}

	if col("product_id") != "p1" {
		t.Errorf("product_id = %q", col("product_id"))
	}
	// Canonical casing, not the raw "blue ".
	if col("colour") != "Blue" {
		t.Errorf("colour = %q, want Blue", col("colour"))
	}
	if col("item_type_path") != "Apparel > Topwear > Shirts" {
		t.Errorf("item_type_path = %q", col("item_type_path"))
	}
	if col("needs_review") != "false" && col("needs_review") != "true" {
		t.Errorf("needs_review = %q", col("needs_review"))
	}
	// No listing copy attached, so the copy columns stay empty.
	if col("title") != "" || col("keywords") != "" {
		t.Errorf("copy columns = %q/%q, want empty", col("title"), col("keywords"))
	}
}

func TestWriteCSVListingCopy(t *testing.T) {
	record := assembledRecord(t)
	record.Copy = copywriter.Generate(record)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []*metadata.Record{record}); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-reading CSV: %v", err)
	}

	header, row := rows[0], rows[1]
	col := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %s missing", name)
		return ""
	}

	if col("title") != "Blue Shirts" {
		t.Errorf("title = %q, want %q", col("title"), "Blue Shirts")
	}
	if !strings.Contains(col("description"), "crafted from") {
		t.Errorf("description = %q", col("description"))
	}
	if !strings.Contains(col("bullet_points"), "; ") {
		t.Errorf("bullet_points = %q, want semicolon-joined list", col("bullet_points"))
	}
	if !strings.Contains(col("keywords"), "shirts") {
		t.Errorf("keywords = %q", col("keywords"))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []*metadata.Record{assembledRecord(t)}); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var decoded []metadata.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding JSON export: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ProductID != "p1" {
		t.Errorf("decoded = %+v", decoded)
	}
	if !strings.Contains(buf.String(), "\"outcome\"") {
		t.Error("JSON export missing per-field outcome detail")
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	if _, err := Save(nil, t.TempDir(), "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSaveCSV(t *testing.T) {
	path, err := Save([]*metadata.Record{assembledRecord(t)}, t.TempDir(), "csv")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if !strings.HasSuffix(path, ".csv") {
		t.Errorf("path = %q, want .csv suffix", path)
	}
}
