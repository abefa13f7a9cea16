// Package scoring turns validation outcomes into per-field confidence scores
// and record-level aggregates that drive review prioritization.
package scoring

import (
	"github.com/stylefacet/tagger/internal/facet"
)

// Canonical record field names, used as weight keys, JSON keys and CSV
// column names.
const (
	FieldGender         = "gender"
	FieldItemTypeLevel1 = "item_type_level1"
	FieldItemTypeLevel2 = "item_type_level2"
	FieldItemTypeLevel3 = "item_type_level3"
	FieldStyleLevel1    = "style_level1"
	FieldStyleLevel2    = "style_level2"
	FieldStyleLevel3    = "style_level3"
	FieldColour         = "colour"
	FieldMaterial       = "material"
	FieldPattern        = "pattern"
	FieldBrand          = "brand"
	FieldSize           = "size"
)

// FieldWeight represents the importance weight of a record field for the
// aggregate score.
type FieldWeight struct {
	Field  string
	Weight float64
}

// DefaultFieldWeights sum to 1.0. Hierarchy levels 1 and 2 carry no weight of
// their own; the leaf term stands in for the whole path. Missing optional
// fields are re-normalized out of the aggregate.
var DefaultFieldWeights = []FieldWeight{
	{FieldItemTypeLevel3, 0.20},
	{FieldStyleLevel3, 0.15},
	{FieldGender, 0.15},
	{FieldColour, 0.15},
	{FieldMaterial, 0.15},
	{FieldPattern, 0.10},
	{FieldBrand, 0.05},
	{FieldSize, 0.05},
}

const (
	// FieldReviewThreshold flags an individual field for human attention.
	FieldReviewThreshold = 0.6
	// RecordReviewThreshold flags a whole record for review.
	RecordReviewThreshold = 0.7

	// Base confidence assumed for a Suggested value when the model reported
	// none; the suggestion similarity then discounts it.
	suggestedBase = 0.8
	// Multiplier applied on a hierarchy mismatch: the term itself is known,
	// but its placement is wrong.
	mismatchFactor = 0.3
	// Floor score for values with no vocabulary support at all.
	invalidScore = 0.1
)

// Score computes the confidence score for one validated field and whether it
// needs review. confidence is the model-reported value, nil when absent. The
// formula is fixed; evaluation results depend on it being reproduced exactly.
func Score(res facet.Result, confidence *float64) (float64, bool) {
	var score float64
	switch res.Outcome {
	case facet.Valid:
		score = confOr(confidence, 1.0)
	case facet.Suggested:
		score = confOr(confidence, suggestedBase) * res.Similarity
	case facet.HierarchyMismatch:
		score = mismatchFactor * confOr(confidence, 1.0)
	default:
		score = invalidScore
	}

	review := score < FieldReviewThreshold ||
		res.Outcome == facet.HierarchyMismatch ||
		res.Outcome == facet.Invalid
	return score, review
}

func confOr(confidence *float64, fallback float64) float64 {
	if confidence == nil {
		return fallback
	}
	return *confidence
}

// Aggregate computes the weighted average of the per-field scores present in
// the record. Absent fields drop out of both numerator and denominator, so
// the result stays on [0,1] regardless of which optional fields exist.
func Aggregate(fieldScores map[string]float64) float64 {
	var weighted, total float64
	for _, fw := range DefaultFieldWeights {
		score, ok := fieldScores[fw.Field]
		if !ok {
			continue
		}
		weighted += fw.Weight * score
		total += fw.Weight
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// NeedsReview reports whether a record must be routed to a human: aggregate
// below threshold, or any individual field already flagged.
func NeedsReview(aggregate float64, anyFieldFlagged bool) bool {
	return aggregate < RecordReviewThreshold || anyFieldFlagged
}
