// Package evaluation measures generated metadata against a gold-standard set.
// It runs offline, never in the live tagging pipeline.
package evaluation

import (
	"sort"
	"time"

	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/scoring"
	"github.com/stylefacet/tagger/internal/vocab"
)

// RowSet maps product ID to its field values. Empty values are treated as
// missing fields.
type RowSet map[string]map[string]string

// FieldStats holds the per-field accuracy tally.
type FieldStats struct {
	Compared int     `json:"compared" yaml:"compared"`
	Correct  int     `json:"correct" yaml:"correct"`
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`
}

// Report is the outcome of one evaluation run.
type Report struct {
	EvaluationDate time.Time `json:"evaluation_date" yaml:"evaluationdate"`
	Provider       string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model          string    `json:"model,omitempty" yaml:"model,omitempty"`

	GoldRecords      int `json:"gold_records" yaml:"goldrecords"`
	GeneratedRecords int `json:"generated_records" yaml:"generatedrecords"`
	MatchedRecords   int `json:"matched_records" yaml:"matchedrecords"`

	// Coverage gaps: IDs present in one set but absent from the other.
	// These are reported, never counted as incorrect.
	MissingFromGenerated []string `json:"missing_from_generated" yaml:"missingfromgenerated"`
	MissingFromGold      []string `json:"missing_from_gold" yaml:"missingfromgold"`

	Fields map[string]FieldStats `json:"fields" yaml:"fields"`

	// OverallAccuracy weights per-field accuracy with the same table the
	// scorer uses, renormalized over fields that had any comparisons.
	OverallAccuracy float64 `json:"overall_accuracy" yaml:"overallaccuracy"`
}

// Evaluate compares generated rows against gold rows, matched by product ID.
// A field counts toward its denominator only when both sides have a value;
// correctness is normalized, case-insensitive string equality.
func Evaluate(gold, generated RowSet) *Report {
	report := &Report{
		EvaluationDate:       time.Now(),
		GoldRecords:          len(gold),
		GeneratedRecords:     len(generated),
		MissingFromGenerated: []string{},
		MissingFromGold:      []string{},
		Fields:               make(map[string]FieldStats, len(metadata.FieldOrder)),
	}

	for id := range gold {
		if _, ok := generated[id]; !ok {
			report.MissingFromGenerated = append(report.MissingFromGenerated, id)
		}
	}
	for id := range generated {
		if _, ok := gold[id]; !ok {
			report.MissingFromGold = append(report.MissingFromGold, id)
		}
	}
	sort.Strings(report.MissingFromGenerated)
	sort.Strings(report.MissingFromGold)

	for _, field := range metadata.FieldOrder {
		stats := FieldStats{}
		for id, goldRow := range gold {
			genRow, ok := generated[id]
			if !ok {
				continue
			}
			goldValue := vocab.Normalize(goldRow[field])
			genValue := vocab.Normalize(genRow[field])
			if goldValue == "" || genValue == "" {
				// Missing on either side: excluded from the denominator.
				continue
			}
			stats.Compared++
			if goldValue == genValue {
				stats.Correct++
			}
		}
		if stats.Compared > 0 {
			stats.Accuracy = float64(stats.Correct) / float64(stats.Compared)
		}
		report.Fields[field] = stats
	}

	report.MatchedRecords = len(gold) - len(report.MissingFromGenerated)
	report.OverallAccuracy = weightedOverall(report.Fields)
	return report
}

func weightedOverall(fields map[string]FieldStats) float64 {
	var totalWeight, weighted float64
	for _, fw := range scoring.DefaultFieldWeights {
		stats, ok := fields[fw.Field]
		if !ok || stats.Compared == 0 {
			continue
		}
		totalWeight += fw.Weight
		weighted += fw.Weight * stats.Accuracy
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

// RowsFromRecords flattens assembled records into an evaluable row set,
// using the display value (canonical when present, raw otherwise).
func RowsFromRecords(records []*metadata.Record) RowSet {
	rows := make(RowSet, len(records))
	for _, rec := range records {
		row := make(map[string]string, len(rec.Fields))
		for field, attr := range rec.Fields {
			row[field] = attr.Display()
		}
		rows[rec.ProductID] = row
	}
	return rows
}
