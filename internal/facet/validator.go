// Package facet validates AI-extracted attribute values against the
// controlled vocabulary. Validation is a pure function of the attribute, its
// parent context and the vocabulary snapshot.
package facet

import (
	"github.com/stylefacet/tagger/internal/vocab"
)

// Outcome classifies how an attribute value relates to the vocabulary.
type Outcome string

const (
	// Valid: exact vocabulary match, hierarchy-consistent.
	Valid Outcome = "valid"
	// Suggested: no exact match, but a vocabulary term is close enough to
	// propose as a correction.
	Suggested Outcome = "suggested"
	// HierarchyMismatch: the term exists at its level but its parent-level
	// value is absent or is not a valid ancestor.
	HierarchyMismatch Outcome = "hierarchy_mismatch"
	// Invalid: no match and nothing close enough to suggest.
	Invalid Outcome = "invalid"
)

// SuggestionThreshold is the minimum similarity for a closest match to be
// proposed instead of declaring the value Invalid.
const SuggestionThreshold = 0.6

// AttributeValue is one extracted or human-edited value for one field.
type AttributeValue struct {
	Facet      string
	Raw        string
	Confidence *float64 // model-reported, nil when absent
	Level      int      // 1..3 for hierarchical facets, 0 for flat
	// Unavailable marks a field whose analysis call failed. It degrades to
	// Invalid so the record lands in full human review instead of aborting
	// the pipeline.
	Unavailable bool
}

// Result is the validation outcome for one attribute.
type Result struct {
	Outcome    Outcome
	Canonical  string  // canonical casing of the matched term, when matched
	Suggestion string  // proposed term (Suggested) or corrected parent (HierarchyMismatch)
	Similarity float64 // similarity of the suggestion, when present
}

// Validator checks attribute values against a vocabulary snapshot.
type Validator struct {
	vocab *vocab.Vocabulary
}

func NewValidator(v *vocab.Vocabulary) *Validator {
	return &Validator{vocab: v}
}

// Validate checks one attribute. parent is the record's already-validated
// value at level-1 for hierarchical facets ("" when unset); it is ignored for
// flat facets and level 1. Errors are integration mistakes (unknown facet,
// missing level), never validation outcomes.
func (va *Validator) Validate(attr AttributeValue, parent string) (Result, error) {
	if attr.Unavailable {
		return Result{Outcome: Invalid}, nil
	}

	canonical, found, err := va.vocab.Lookup(attr.Facet, attr.Raw, attr.Level)
	if err != nil {
		return Result{}, err
	}

	if found {
		if attr.Level <= 1 {
			return Result{Outcome: Valid, Canonical: canonical}, nil
		}
		parents, err := va.vocab.ParentOf(attr.Facet, attr.Raw, attr.Level)
		if err != nil {
			return Result{}, err
		}
		if parentIsValid(parent, parents) {
			return Result{Outcome: Valid, Canonical: canonical}, nil
		}
		suggestion, score := suggestParent(parent, parents)
		return Result{
			Outcome:    HierarchyMismatch,
			Canonical:  canonical,
			Suggestion: suggestion,
			Similarity: score,
		}, nil
	}

	match, ok, err := va.vocab.ClosestMatch(attr.Facet, attr.Raw, attr.Level)
	if err != nil {
		return Result{}, err
	}
	if ok && match.Score >= SuggestionThreshold {
		return Result{Outcome: Suggested, Suggestion: match.Term, Similarity: match.Score}, nil
	}
	return Result{Outcome: Invalid}, nil
}

func parentIsValid(parent string, parents []string) bool {
	if parent == "" {
		return false
	}
	norm := vocab.Normalize(parent)
	for _, p := range parents {
		if vocab.Normalize(p) == norm {
			return true
		}
	}
	return false
}

// suggestParent proposes the valid parent nearest to the record's current
// parent value. When several valid parents tie for the top similarity the
// choice would be arbitrary, so no suggestion is made.
func suggestParent(parent string, parents []string) (string, float64) {
	if len(parents) == 0 {
		return "", 0
	}
	if len(parents) == 1 {
		return parents[0], vocab.Similarity(parent, parents[0])
	}

	best, bestScore, ties := "", -1.0, 0
	for _, p := range parents {
		score := vocab.Similarity(parent, p)
		switch {
		case score > bestScore:
			best, bestScore, ties = p, score, 1
		case score == bestScore:
			ties++
		}
	}
	if ties > 1 {
		return "", 0
	}
	return best, bestScore
}
