// Package export flattens finalized metadata records into the formats the
// catalog tooling downstream consumes.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/scoring"
)

var csvHeader = []string{
	"product_id",
	"gender",
	"item_type_level1", "item_type_level2", "item_type_level3", "item_type_path",
	"style_level1", "style_level2", "style_level3", "style_path",
	"colour", "material", "pattern", "brand", "size",
	"title", "description", "bullet_points", "keywords",
	"aggregate_score", "needs_review", "approved",
}

// WriteCSV writes records as flattened rows, one per product.
func WriteCSV(w io.Writer, records []*metadata.Record) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range records {
		value := func(field string) string {
			if attr, ok := rec.Fields[field]; ok {
				return attr.Display()
			}
			return ""
		}
		path := func(l1, l2, l3 string) string {
			return value(l1) + " > " + value(l2) + " > " + value(l3)
		}

		var title, description, bullets, keywords string
		if rec.Copy != nil {
			title = rec.Copy.Title
			description = rec.Copy.Description
			bullets = strings.Join(rec.Copy.BulletPoints, "; ")
			keywords = strings.Join(rec.Copy.Keywords, ", ")
		}

		row := []string{
			rec.ProductID,
			value(scoring.FieldGender),
			value(scoring.FieldItemTypeLevel1),
			value(scoring.FieldItemTypeLevel2),
			value(scoring.FieldItemTypeLevel3),
			path(scoring.FieldItemTypeLevel1, scoring.FieldItemTypeLevel2, scoring.FieldItemTypeLevel3),
			value(scoring.FieldStyleLevel1),
			value(scoring.FieldStyleLevel2),
			value(scoring.FieldStyleLevel3),
			path(scoring.FieldStyleLevel1, scoring.FieldStyleLevel2, scoring.FieldStyleLevel3),
			value(scoring.FieldColour),
			value(scoring.FieldMaterial),
			value(scoring.FieldPattern),
			value(scoring.FieldBrand),
			value(scoring.FieldSize),
			title,
			description,
			bullets,
			keywords,
			fmt.Sprintf("%.4f", rec.Aggregate),
			strconv.FormatBool(rec.NeedsReview),
			strconv.FormatBool(rec.Approved),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes records as an indented JSON array with the full
// per-field outcome detail.
func WriteJSON(w io.Writer, records []*metadata.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// Save writes records to a timestamped file under dir and returns its path.
// Format is "csv" or "json".
func Save(records []*metadata.Record, dir, format string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("faceted_metadata_%s.%s", timestamp, format))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	switch format {
	case "csv":
		err = WriteCSV(file, records)
	case "json":
		err = WriteJSON(file, records)
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: csv, json)", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
