package metadata

import (
	"fmt"
	"strings"

	"github.com/stylefacet/tagger/internal/facet"
	"github.com/stylefacet/tagger/internal/scoring"
)

// RawAttribute is one field's value as delivered by the vision collaborator
// (or a human override): freeform text plus an optional model confidence.
type RawAttribute struct {
	Value      string   `json:"value"`
	Confidence *float64 `json:"confidence,omitempty"`
	// Unavailable marks a field whose analysis call failed; it assembles
	// into an Invalid, review-flagged attribute instead of aborting.
	Unavailable bool `json:"unavailable,omitempty"`
}

// AttributeMap is the raw attribute set for one product, keyed by the
// scoring.Field* names.
type AttributeMap map[string]RawAttribute

// ScoredAttribute is one validated and scored record field.
type ScoredAttribute struct {
	Field      string   `json:"field"`
	Value      string   `json:"value"`
	Canonical  string   `json:"canonical,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`

	Outcome    facet.Outcome `json:"outcome"`
	Suggestion string        `json:"suggestion,omitempty"`
	Similarity float64       `json:"similarity,omitempty"`

	Score       float64 `json:"score"`
	NeedsReview bool    `json:"needs_review"`
}

// ListingCopy is the generated marketing copy for a product: a title,
// descriptions, selling-point bullets and search keywords derived from the
// record's validated attributes.
type ListingCopy struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	BulletPoints     []string `json:"bullet_points"`
	Keywords         []string `json:"keywords"`
}

// Record is one product's assembled, scored metadata. It is mutated only by
// Assembler.Correct until approval, after which it is immutable.
type Record struct {
	ProductID string                      `json:"product_id"`
	Fields    map[string]*ScoredAttribute `json:"fields"`

	// Copy is the generated listing copy, when a pipeline stage attached it.
	Copy *ListingCopy `json:"copy,omitempty"`

	Aggregate   float64 `json:"aggregate"`
	NeedsReview bool    `json:"needs_review"`
	Approved    bool    `json:"approved"`
}

// FieldOrder is the canonical field iteration order: hierarchies top-down,
// then flats. Hierarchy levels must stay in this order because each level's
// validation consumes its predecessor.
var FieldOrder = []string{
	scoring.FieldGender,
	scoring.FieldItemTypeLevel1,
	scoring.FieldItemTypeLevel2,
	scoring.FieldItemTypeLevel3,
	scoring.FieldStyleLevel1,
	scoring.FieldStyleLevel2,
	scoring.FieldStyleLevel3,
	scoring.FieldColour,
	scoring.FieldMaterial,
	scoring.FieldPattern,
	scoring.FieldBrand,
	scoring.FieldSize,
}

// Display returns the value a reviewer should see: the canonical vocabulary
// term when matched, otherwise the raw value.
func (a *ScoredAttribute) Display() string {
	if a.Canonical != "" {
		return a.Canonical
	}
	return a.Value
}

// ApprovalError reports the fields blocking approval of a record.
type ApprovalError struct {
	ProductID string
	Fields    []string
}

func (e *ApprovalError) Error() string {
	return fmt.Sprintf("approval blocked for %s: unresolved fields: %s",
		e.ProductID, strings.Join(e.Fields, ", "))
}

// ErrApproved is returned when a correction targets an approved record.
var ErrApproved = fmt.Errorf("record is approved and immutable")

// ErrUnknownField is returned when a correction names a field the record
// model does not have.
var ErrUnknownField = fmt.Errorf("unknown record field")
