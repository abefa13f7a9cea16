package copywriter

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/scoring"
)

func recordWith(fields map[string]string) *metadata.Record {
	rec := &metadata.Record{
		ProductID: "p1",
		Fields:    make(map[string]*metadata.ScoredAttribute),
	}
	for field, value := range fields {
		rec.Fields[field] = &metadata.ScoredAttribute{
			Field:     field,
			Value:     value,
			Canonical: value,
		}
	}
	return rec
}

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{
			name: "brand colour category",
			fields: map[string]string{
				scoring.FieldBrand:          "Acme",
				scoring.FieldColour:         "Blue",
				scoring.FieldItemTypeLevel3: "Shirts",
			},
			want: "Acme Blue Shirts",
		},
		{
			name: "falls back to a shallower item type level",
			fields: map[string]string{
				scoring.FieldColour:         "Red",
				scoring.FieldItemTypeLevel1: "Apparel",
			},
			want: "Red Apparel",
		},
		{
			name:   "no usable fields",
			fields: map[string]string{},
			want:   "Fashion Product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(recordWith(tt.fields))
			if got.Title != tt.want {
				t.Errorf("Title = %q, want %q", got.Title, tt.want)
			}
		})
	}
}

func TestGenerateDescription(t *testing.T) {
	rec := recordWith(map[string]string{
		scoring.FieldBrand:          "Acme",
		scoring.FieldColour:         "Blue",
		scoring.FieldItemTypeLevel3: "Shirts",
		scoring.FieldMaterial:       "Cotton",
	})
	got := Generate(rec)

	if !strings.HasPrefix(got.Description, "This Acme Blue shirts is crafted from Cotton") {
		t.Errorf("unexpected description: %q", got.Description)
	}
	if len(got.ShortDescription) > shortDescriptionLimit+3 {
		t.Errorf("short description too long: %d chars", len(got.ShortDescription))
	}
	if !strings.HasPrefix(got.Description, strings.TrimSuffix(got.ShortDescription, "...")) {
		t.Errorf("short description %q is not a prefix of %q", got.ShortDescription, got.Description)
	}

	// Missing material falls back to a generic phrase.
	bare := Generate(recordWith(map[string]string{scoring.FieldColour: "Red"}))
	if !strings.Contains(bare.Description, "crafted from quality materials") {
		t.Errorf("missing material fallback, got %q", bare.Description)
	}
}

func TestGenerateBulletPoints(t *testing.T) {
	rec := recordWith(map[string]string{
		scoring.FieldColour:      "Blue",
		scoring.FieldMaterial:    "Cotton",
		scoring.FieldStyleLevel1: "Casual",
		scoring.FieldPattern:     "Striped",
	})
	got := Generate(rec)

	want := []string{
		"Available in Blue",
		"Made from premium Cotton",
		"Casual design",
		"Striped pattern",
	}
	if !reflect.DeepEqual(got.BulletPoints, want) {
		t.Errorf("BulletPoints = %v, want %v", got.BulletPoints, want)
	}

	// Sparse records are padded up to at least three bullets.
	sparse := Generate(recordWith(map[string]string{scoring.FieldColour: "Red"}))
	if len(sparse.BulletPoints) < 3 {
		t.Errorf("expected at least 3 bullets, got %v", sparse.BulletPoints)
	}
	if len(sparse.BulletPoints) > 5 {
		t.Errorf("expected at most 5 bullets, got %v", sparse.BulletPoints)
	}
}

func TestGenerateKeywords(t *testing.T) {
	rec := recordWith(map[string]string{
		scoring.FieldBrand:          "Acme",
		scoring.FieldGender:         "Men",
		scoring.FieldColour:         "Navy Blue",
		scoring.FieldItemTypeLevel3: "Shirts",
	})
	got := Generate(rec)

	if !sort.StringsAreSorted(got.Keywords) {
		t.Errorf("keywords not sorted: %v", got.Keywords)
	}
	for _, keyword := range []string{"acme", "men", "navy blue", "navy", "blue", "shirts"} {
		found := false
		for _, k := range got.Keywords {
			if k == keyword {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing keyword %q in %v", keyword, got.Keywords)
		}
	}
	if len(got.Keywords) > 20 {
		t.Errorf("too many keywords: %d", len(got.Keywords))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	rec := recordWith(map[string]string{
		scoring.FieldBrand:          "Acme",
		scoring.FieldGender:         "Women",
		scoring.FieldColour:         "Blue",
		scoring.FieldMaterial:       "Cotton",
		scoring.FieldPattern:        "Solid",
		scoring.FieldItemTypeLevel3: "Shirts",
		scoring.FieldStyleLevel1:    "Casual",
	})

	first := Generate(rec)
	for i := 0; i < 5; i++ {
		if got := Generate(rec); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced different copy: %+v vs %+v", i, got, first)
		}
	}
}
