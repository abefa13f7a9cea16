package scoring

import (
	"math"
	"testing"

	"github.com/stylefacet/tagger/internal/facet"
)

func ptr(f float64) *float64 { return &f }

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		result     facet.Result
		confidence *float64
		wantScore  float64
		wantReview bool
	}{
		{
			name:      "valid without confidence",
			result:    facet.Result{Outcome: facet.Valid},
			wantScore: 1.0,
		},
		{
			name:       "valid keeps model confidence",
			result:     facet.Result{Outcome: facet.Valid},
			confidence: ptr(0.9),
			wantScore:  0.9,
		},
		{
			name:       "valid with low confidence is flagged",
			result:     facet.Result{Outcome: facet.Valid},
			confidence: ptr(0.5),
			wantScore:  0.5,
			wantReview: true,
		},
		{
			name:      "suggested discounts by similarity",
			result:    facet.Result{Outcome: facet.Suggested, Suggestion: "Blue", Similarity: 0.8},
			wantScore: 0.8 * 0.8,
		},
		{
			name:       "suggested with confidence",
			result:     facet.Result{Outcome: facet.Suggested, Similarity: 0.8},
			confidence: ptr(0.5),
			wantScore:  0.5 * 0.8,
			wantReview: true,
		},
		{
			name:       "hierarchy mismatch always flagged",
			result:     facet.Result{Outcome: facet.HierarchyMismatch},
			confidence: ptr(1.0),
			wantScore:  0.3,
			wantReview: true,
		},
		{
			name:       "invalid floor",
			result:     facet.Result{Outcome: facet.Invalid},
			confidence: ptr(0.99),
			wantScore:  0.1,
			wantReview: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, review := Score(tt.result, tt.confidence)
			if math.Abs(score-tt.wantScore) > 1e-9 {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			if review != tt.wantReview {
				t.Errorf("review = %v, want %v", review, tt.wantReview)
			}
			if score < 0 || score > 1 {
				t.Errorf("score %v outside [0,1]", score)
			}
		})
	}
}

func TestDefaultFieldWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, fw := range DefaultFieldWeights {
		sum += fw.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]float64
		want   float64
	}{
		{
			name:   "empty",
			scores: map[string]float64{},
			want:   0,
		},
		{
			name: "all fields perfect",
			scores: map[string]float64{
				FieldItemTypeLevel3: 1, FieldStyleLevel3: 1, FieldGender: 1,
				FieldColour: 1, FieldMaterial: 1, FieldPattern: 1,
				FieldBrand: 1, FieldSize: 1,
			},
			want: 1,
		},
		{
			name: "missing fields renormalized",
			// Only colour (0.15) and pattern (0.10) present, both perfect:
			// the aggregate must still be 1.0, not 0.25.
			scores: map[string]float64{FieldColour: 1, FieldPattern: 1},
			want:   1,
		},
		{
			name: "weighted mix",
			// colour 1.0 * 0.15, pattern 0.5 * 0.10 over total weight 0.25.
			scores: map[string]float64{FieldColour: 1, FieldPattern: 0.5},
			want:   (0.15 + 0.05) / 0.25,
		},
		{
			name: "unweighted hierarchy levels ignored",
			scores: map[string]float64{
				FieldItemTypeLevel1: 0.1,
				FieldColour:         1,
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.scores)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Aggregate = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("aggregate %v outside [0,1]", got)
			}
		})
	}
}

func TestNeedsReview(t *testing.T) {
	tests := []struct {
		name       string
		aggregate  float64
		anyFlagged bool
		want       bool
	}{
		{"high score clean fields", 0.9, false, false},
		{"low aggregate", 0.69, false, true},
		{"flagged field despite high aggregate", 0.95, true, true},
		{"exactly at threshold", 0.7, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsReview(tt.aggregate, tt.anyFlagged); got != tt.want {
				t.Errorf("NeedsReview(%v, %v) = %v, want %v", tt.aggregate, tt.anyFlagged, got, tt.want)
			}
		})
	}
}
