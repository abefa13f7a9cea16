package facet

import (
	"testing"

	"github.com/stylefacet/tagger/internal/vocab"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	return NewValidator(vocab.Default())
}

func TestValidateFlat(t *testing.T) {
	validator := newValidator(t)

	tests := []struct {
		name        string
		raw         string
		wantOutcome Outcome
		wantCanon   string
		wantSuggest string
	}{
		{"exact match", "Red", Valid, "Red", ""},
		{"trailing space", "red ", Valid, "Red", ""},
		{"typo within threshold", "Bllue", Suggested, "", "Blue"},
		{"no vocabulary support", "Crimson", Invalid, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := validator.Validate(AttributeValue{
				Facet: vocab.FacetColour,
				Raw:   tt.raw,
			}, "")
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if res.Outcome != tt.wantOutcome {
				t.Fatalf("outcome = %v, want %v", res.Outcome, tt.wantOutcome)
			}
			if res.Canonical != tt.wantCanon {
				t.Errorf("canonical = %q, want %q", res.Canonical, tt.wantCanon)
			}
			if res.Suggestion != tt.wantSuggest {
				t.Errorf("suggestion = %q, want %q", res.Suggestion, tt.wantSuggest)
			}
		})
	}
}

func TestValidateSuggestionSimilarity(t *testing.T) {
	validator := newValidator(t)

	res, err := validator.Validate(AttributeValue{Facet: vocab.FacetColour, Raw: "Bllue"}, "")
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.Outcome != Suggested {
		t.Fatalf("outcome = %v, want Suggested", res.Outcome)
	}
	if res.Similarity < SuggestionThreshold {
		t.Errorf("similarity %v below threshold %v", res.Similarity, SuggestionThreshold)
	}
}

func TestValidateHierarchy(t *testing.T) {
	validator := newValidator(t)

	tests := []struct {
		name        string
		raw         string
		level       int
		parent      string
		wantOutcome Outcome
		wantSuggest string
	}{
		{"level 1 needs no parent", "Apparel", 1, "", Valid, ""},
		{"level 2 consistent", "Topwear", 2, "Apparel", Valid, ""},
		{"level 3 consistent", "Shirts", 3, "Topwear", Valid, ""},
		{"level 3 case-insensitive parent", "Shirts", 3, "topwear ", Valid, ""},
		{"wrong ancestor", "Shirts", 3, "Footwear", HierarchyMismatch, "Topwear"},
		{"missing parent", "Topwear", 2, "", HierarchyMismatch, "Apparel"},
		{"unknown term close to vocabulary", "Shirt", 3, "Topwear", Suggested, "Shirts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := validator.Validate(AttributeValue{
				Facet: vocab.FacetItemType,
				Raw:   tt.raw,
				Level: tt.level,
			}, tt.parent)
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if res.Outcome != tt.wantOutcome {
				t.Fatalf("outcome = %v, want %v", res.Outcome, tt.wantOutcome)
			}
			if res.Suggestion != tt.wantSuggest {
				t.Errorf("suggestion = %q, want %q", res.Suggestion, tt.wantSuggest)
			}
		})
	}
}

func TestValidateUnavailable(t *testing.T) {
	validator := newValidator(t)

	res, err := validator.Validate(AttributeValue{
		Facet:       vocab.FacetColour,
		Unavailable: true,
	}, "")
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.Outcome != Invalid {
		t.Errorf("unavailable outcome = %v, want Invalid", res.Outcome)
	}
}

func TestValidateInputErrors(t *testing.T) {
	validator := newValidator(t)

	if _, err := validator.Validate(AttributeValue{Facet: "Fabric", Raw: "Cotton"}, ""); err == nil {
		t.Error("expected error for unknown facet")
	}
	if _, err := validator.Validate(AttributeValue{Facet: vocab.FacetItemType, Raw: "Shirts", Level: 0}, ""); err == nil {
		t.Error("expected error for missing hierarchy level")
	}
}
