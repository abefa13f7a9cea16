package evaluation

import (
	"math"
	"testing"

	"github.com/stylefacet/tagger/internal/scoring"
)

func TestEvaluateIdenticalSets(t *testing.T) {
	gold := RowSet{
		"p1": map[string]string{
			scoring.FieldGender: "Men",
			scoring.FieldColour: "Blue",
		},
		"p2": map[string]string{
			scoring.FieldGender: "Women",
			scoring.FieldColour: "Red",
		},
	}

	report := Evaluate(gold, gold)

	for field, stats := range report.Fields {
		if stats.Compared > 0 && stats.Accuracy != 1.0 {
			t.Errorf("field %s accuracy = %v, want 1.0", field, stats.Accuracy)
		}
	}
	if report.OverallAccuracy != 1.0 {
		t.Errorf("overall accuracy = %v, want 1.0", report.OverallAccuracy)
	}
	if len(report.MissingFromGenerated) != 0 || len(report.MissingFromGold) != 0 {
		t.Error("identical sets reported coverage gaps")
	}
	if report.MatchedRecords != 2 {
		t.Errorf("matched = %d, want 2", report.MatchedRecords)
	}
}

func TestEvaluateNormalizedComparison(t *testing.T) {
	gold := RowSet{"p1": map[string]string{scoring.FieldColour: "Navy Blue"}}
	generated := RowSet{"p1": map[string]string{scoring.FieldColour: "  navy   blue "}}

	report := Evaluate(gold, generated)
	stats := report.Fields[scoring.FieldColour]
	if stats.Compared != 1 || stats.Correct != 1 {
		t.Errorf("normalized match not counted: %+v", stats)
	}
}

func TestEvaluateMissingFieldsExcluded(t *testing.T) {
	gold := RowSet{
		"p1": map[string]string{scoring.FieldColour: "Blue", scoring.FieldGender: "Men"},
		"p2": map[string]string{scoring.FieldColour: "Red"}, // gender missing in gold
	}
	generated := RowSet{
		"p1": map[string]string{scoring.FieldColour: "Blue", scoring.FieldGender: "Men"},
		"p2": map[string]string{scoring.FieldColour: "Green", scoring.FieldGender: "Women"},
	}

	report := Evaluate(gold, generated)

	gender := report.Fields[scoring.FieldGender]
	if gender.Compared != 1 {
		t.Errorf("gender compared = %d, want 1 (p2 excluded, missing in gold)", gender.Compared)
	}
	if gender.Accuracy != 1.0 {
		t.Errorf("gender accuracy = %v, want 1.0", gender.Accuracy)
	}

	colour := report.Fields[scoring.FieldColour]
	if colour.Compared != 2 || colour.Correct != 1 {
		t.Errorf("colour stats = %+v, want 1/2", colour)
	}
	if math.Abs(colour.Accuracy-0.5) > 1e-9 {
		t.Errorf("colour accuracy = %v, want 0.5", colour.Accuracy)
	}
}

func TestEvaluateCoverageGaps(t *testing.T) {
	gold := RowSet{
		"p1": map[string]string{scoring.FieldColour: "Blue"},
		"p2": map[string]string{scoring.FieldColour: "Red"},
	}
	generated := RowSet{
		"p1": map[string]string{scoring.FieldColour: "Blue"},
		"p3": map[string]string{scoring.FieldColour: "Green"},
	}

	report := Evaluate(gold, generated)

	if len(report.MissingFromGenerated) != 1 || report.MissingFromGenerated[0] != "p2" {
		t.Errorf("missing from generated = %v, want [p2]", report.MissingFromGenerated)
	}
	if len(report.MissingFromGold) != 1 || report.MissingFromGold[0] != "p3" {
		t.Errorf("missing from gold = %v, want [p3]", report.MissingFromGold)
	}

	// Unmatched products must not count as incorrect.
	colour := report.Fields[scoring.FieldColour]
	if colour.Compared != 1 || colour.Correct != 1 {
		t.Errorf("colour stats = %+v, want 1/1", colour)
	}
	if report.MatchedRecords != 1 {
		t.Errorf("matched = %d, want 1", report.MatchedRecords)
	}
}

func TestEvaluateWeightedOverall(t *testing.T) {
	// colour correct (weight 0.15), pattern wrong (weight 0.10): the overall
	// score is renormalized over the two compared fields.
	gold := RowSet{"p1": map[string]string{
		scoring.FieldColour:  "Blue",
		scoring.FieldPattern: "Solid",
	}}
	generated := RowSet{"p1": map[string]string{
		scoring.FieldColour:  "Blue",
		scoring.FieldPattern: "Striped",
	}}

	report := Evaluate(gold, generated)
	want := 0.15 / 0.25
	if math.Abs(report.OverallAccuracy-want) > 1e-9 {
		t.Errorf("overall = %v, want %v", report.OverallAccuracy, want)
	}
}
