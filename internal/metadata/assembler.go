// Package metadata assembles raw AI attributes into validated, scored
// product records and handles reviewer corrections and approval.
package metadata

import (
	"fmt"

	"github.com/stylefacet/tagger/internal/facet"
	"github.com/stylefacet/tagger/internal/scoring"
	"github.com/stylefacet/tagger/internal/vocab"
)

// fieldSpec binds a record field to its facet, hierarchy level and, for
// levels 2 and 3, the record field holding its parent value.
type fieldSpec struct {
	field  string
	facet  string
	level  int
	parent string
}

var fieldSpecs = map[string]fieldSpec{
	scoring.FieldGender:         {scoring.FieldGender, vocab.FacetGender, 0, ""},
	scoring.FieldItemTypeLevel1: {scoring.FieldItemTypeLevel1, vocab.FacetItemType, 1, ""},
	scoring.FieldItemTypeLevel2: {scoring.FieldItemTypeLevel2, vocab.FacetItemType, 2, scoring.FieldItemTypeLevel1},
	scoring.FieldItemTypeLevel3: {scoring.FieldItemTypeLevel3, vocab.FacetItemType, 3, scoring.FieldItemTypeLevel2},
	scoring.FieldStyleLevel1:    {scoring.FieldStyleLevel1, vocab.FacetStyle, 1, ""},
	scoring.FieldStyleLevel2:    {scoring.FieldStyleLevel2, vocab.FacetStyle, 2, scoring.FieldStyleLevel1},
	scoring.FieldStyleLevel3:    {scoring.FieldStyleLevel3, vocab.FacetStyle, 3, scoring.FieldStyleLevel2},
	scoring.FieldColour:         {scoring.FieldColour, vocab.FacetColour, 0, ""},
	scoring.FieldMaterial:       {scoring.FieldMaterial, vocab.FacetMaterial, 0, ""},
	scoring.FieldPattern:        {scoring.FieldPattern, vocab.FacetPattern, 0, ""},
	scoring.FieldBrand:          {scoring.FieldBrand, vocab.FacetBrand, 0, ""},
	scoring.FieldSize:           {scoring.FieldSize, vocab.FacetSize, 0, ""},
}

// Overrides carries reviewer-supplied values for the fields outside the
// vision model's purview. Non-empty values replace the extracted ones before
// validation.
type Overrides struct {
	Gender string
	Brand  string
	Size   string
}

// Assembler builds Records against one vocabulary snapshot.
type Assembler struct {
	validator *facet.Validator
}

func NewAssembler(v *vocab.Vocabulary) *Assembler {
	return &Assembler{validator: facet.NewValidator(v)}
}

// Assemble validates and scores every supplied attribute and produces the
// product's record. Hierarchical facets are processed strictly top-down so a
// leaf mismatch can be traced to its ancestor; flat facets are independent.
// Re-running with the same inputs and snapshot yields an identical record.
func (as *Assembler) Assemble(productID string, attrs AttributeMap, ov Overrides) (*Record, error) {
	merged := make(AttributeMap, len(attrs))
	for field, attr := range attrs {
		if _, known := fieldSpecs[field]; !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		merged[field] = attr
	}
	applyOverride(merged, scoring.FieldGender, ov.Gender)
	applyOverride(merged, scoring.FieldBrand, ov.Brand)
	applyOverride(merged, scoring.FieldSize, ov.Size)

	rec := &Record{
		ProductID: productID,
		Fields:    make(map[string]*ScoredAttribute, len(merged)),
	}

	for _, field := range FieldOrder {
		attr, ok := merged[field]
		if !ok {
			continue
		}
		scored, err := as.scoreField(rec, field, attr)
		if err != nil {
			return nil, err
		}
		rec.Fields[field] = scored
	}

	as.refresh(rec)
	return rec, nil
}

// Correct replaces one field's value with a reviewer-supplied one, then
// re-validates it and every dependent child level before recomputing the
// aggregate. Approved records reject corrections.
func (as *Assembler) Correct(rec *Record, field, value string) error {
	if rec.Approved {
		return ErrApproved
	}
	spec, ok := fieldSpecs[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	// Manual input carries no model confidence.
	scored, err := as.scoreField(rec, field, RawAttribute{Value: value})
	if err != nil {
		return err
	}
	rec.Fields[field] = scored

	// A corrected hierarchy level changes the parent context of everything
	// below it.
	if spec.level > 0 {
		for _, child := range FieldOrder {
			cs := fieldSpecs[child]
			if cs.facet != spec.facet || cs.level <= spec.level {
				continue
			}
			existing, ok := rec.Fields[child]
			if !ok {
				continue
			}
			rescored, err := as.scoreField(rec, child, RawAttribute{
				Value:      existing.Value,
				Confidence: existing.Confidence,
			})
			if err != nil {
				return err
			}
			rec.Fields[child] = rescored
		}
	}

	as.refresh(rec)
	return nil
}

// Approve marks the record immutable. Every present field must have a Valid
// outcome; otherwise the offending fields are reported and the record stays
// open.
func (as *Assembler) Approve(rec *Record) error {
	var blocked []string
	for _, field := range FieldOrder {
		attr, ok := rec.Fields[field]
		if !ok {
			continue
		}
		if attr.Outcome != facet.Valid {
			blocked = append(blocked, field)
		}
	}
	if len(blocked) > 0 {
		return &ApprovalError{ProductID: rec.ProductID, Fields: blocked}
	}
	rec.Approved = true
	return nil
}

func (as *Assembler) scoreField(rec *Record, field string, attr RawAttribute) (*ScoredAttribute, error) {
	spec := fieldSpecs[field]

	parent := ""
	if spec.parent != "" {
		if p, ok := rec.Fields[spec.parent]; ok {
			parent = p.Display()
		}
	}

	res, err := as.validator.Validate(facet.AttributeValue{
		Facet:       spec.facet,
		Raw:         attr.Value,
		Confidence:  attr.Confidence,
		Level:       spec.level,
		Unavailable: attr.Unavailable,
	}, parent)
	if err != nil {
		return nil, err
	}

	score, review := scoring.Score(res, attr.Confidence)
	return &ScoredAttribute{
		Field:       field,
		Value:       attr.Value,
		Canonical:   res.Canonical,
		Confidence:  attr.Confidence,
		Outcome:     res.Outcome,
		Suggestion:  res.Suggestion,
		Similarity:  res.Similarity,
		Score:       score,
		NeedsReview: review,
	}, nil
}

// refresh recomputes the aggregate score and record-level review flag.
func (as *Assembler) refresh(rec *Record) {
	fieldScores := make(map[string]float64, len(rec.Fields))
	anyFlagged := false
	for _, field := range FieldOrder {
		attr, ok := rec.Fields[field]
		if !ok {
			continue
		}
		fieldScores[field] = attr.Score
		if attr.NeedsReview {
			anyFlagged = true
		}
	}
	rec.Aggregate = scoring.Aggregate(fieldScores)
	rec.NeedsReview = scoring.NeedsReview(rec.Aggregate, anyFlagged)
}

func applyOverride(attrs AttributeMap, field, value string) {
	if value == "" {
		return
	}
	attrs[field] = RawAttribute{Value: value}
}
