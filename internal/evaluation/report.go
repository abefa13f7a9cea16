package evaluation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stylefacet/tagger/internal/metadata"
	"gopkg.in/yaml.v3"
)

// LoadCSV reads a row set from a flattened metadata CSV: a product_id column
// plus one column per field name. Unknown columns are ignored.
func LoadCSV(path string) (RowSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := index["product_id"]
	if !ok {
		return nil, fmt.Errorf("%s has no product_id column", path)
	}

	rows := make(RowSet)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if idCol >= len(record) || strings.TrimSpace(record[idCol]) == "" {
			continue
		}
		row := make(map[string]string, len(metadata.FieldOrder))
		for _, field := range metadata.FieldOrder {
			if i, ok := index[field]; ok && i < len(record) {
				row[field] = strings.TrimSpace(record[i])
			}
		}
		rows[strings.TrimSpace(record[idCol])] = row
	}
	return rows, nil
}

// PrintSummary prints a human-readable summary of the evaluation.
func (r *Report) PrintSummary() {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("TAGGER EVALUATION SUMMARY")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Evaluation Date: %s\n", r.EvaluationDate.Format("2006-01-02 15:04:05"))
	if r.Provider != "" {
		fmt.Printf("Provider: %s\n", r.Provider)
	}
	if r.Model != "" {
		fmt.Printf("Model: %s\n", r.Model)
	}
	fmt.Println()

	fmt.Println("COVERAGE")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Gold Records: %d\n", r.GoldRecords)
	fmt.Printf("Generated Records: %d\n", r.GeneratedRecords)
	fmt.Printf("Matched: %d\n", r.MatchedRecords)
	fmt.Printf("Missing From Generated: %d\n", len(r.MissingFromGenerated))
	fmt.Printf("Missing From Gold: %d\n", len(r.MissingFromGold))
	fmt.Println()

	fmt.Println("FIELD-LEVEL ACCURACY")
	fmt.Println(strings.Repeat("-", 70))
	for _, field := range metadata.FieldOrder {
		stats := r.Fields[field]
		if stats.Compared == 0 {
			fmt.Printf("  %-20s (no comparable pairs)\n", field+":")
			continue
		}
		fmt.Printf("  %-20s %6.2f%%  (%d/%d)\n", field+":", stats.Accuracy*100, stats.Correct, stats.Compared)
	}
	fmt.Println()

	fmt.Println("OVERALL SCORE")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Weighted Accuracy: %.2f%% (%.3f)\n", r.OverallAccuracy*100, r.OverallAccuracy)
	fmt.Println(strings.Repeat("=", 70))
}

// SaveYAML writes the report to a timestamped YAML file under evals/ and
// returns its path.
func (r *Report) SaveYAML() (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	name := "eval"
	if r.Model != "" {
		name = r.Model
	}
	filename := fmt.Sprintf("evals/%s-%s.yaml", name, r.EvaluationDate.Format("2006-01-02_15-04-05"))

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	return absPath, nil
}

// SaveJSON writes the report to the given path as indented JSON.
func (r *Report) SaveJSON(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report to JSON: %w", err)
	}
	return nil
}
