package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ProductRow is one bulk-input product: an identifier, where to find its
// image, and the catalog-supplied fields outside the vision model's purview.
type ProductRow struct {
	ProductID string `parquet:"product_id" json:"product_id"`
	Image     string `parquet:"image" json:"image"`
	ImageURL  string `parquet:"image_url" json:"image_url"`
	Gender    string `parquet:"gender" json:"gender"`
	Brand     string `parquet:"brand" json:"brand"`
	Size      string `parquet:"size" json:"size"`
}

// Loader reads product rows from a CSV or Parquet dataset file.
type Loader struct {
	datasetPath string
}

func NewLoader(datasetPath string) *Loader {
	return &Loader{datasetPath: datasetPath}
}

// Load reads every row. Format is detected from the file extension.
func (l *Loader) Load() ([]ProductRow, error) {
	return l.LoadSample(-1)
}

// LoadSample reads up to limit rows (-1 for all).
func (l *Loader) LoadSample(limit int) ([]ProductRow, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))
	switch ext {
	case ".parquet":
		return l.loadParquet(limit)
	case ".csv":
		return l.loadCSV(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .csv, .parquet)", ext)
	}
}

// Column aliases seen across catalog exports.
var csvAliases = map[string][]string{
	"product_id": {"product_id", "productid", "product id"},
	"image":      {"image", "image_file", "imagefile", "image file"},
	"image_url":  {"image_url", "imageurl", "image url"},
	"gender":     {"gender"},
	"brand":      {"brand"},
	"size":       {"size"},
}

func (l *Loader) loadCSV(limit int) ([]ProductRow, error) {
	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int)
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	column := func(row []string, field string) string {
		for _, alias := range csvAliases[field] {
			if i, ok := index[alias]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	if _, ok := index["productid"]; !ok {
		if _, ok := index["product_id"]; !ok {
			return nil, fmt.Errorf("dataset %s has no ProductId column", l.datasetPath)
		}
	}

	var rows []ProductRow
	lineNum := 1
	for limit < 0 || len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV at line %d: %w", lineNum, err)
		}
		rows = append(rows, ProductRow{
			ProductID: column(row, "product_id"),
			Image:     column(row, "image"),
			ImageURL:  column(row, "image_url"),
			Gender:    column(row, "gender"),
			Brand:     column(row, "brand"),
			Size:      column(row, "size"),
		})
	}

	slog.Debug("Finished reading CSV dataset", "total_rows", len(rows))
	return rows, nil
}

func (l *Loader) loadParquet(limit int) ([]ProductRow, error) {
	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[ProductRow](pf)
	defer reader.Close()

	var rows []ProductRow
	batch := make([]ProductRow, 128)

	for limit < 0 || len(rows) < limit {
		n, err := reader.Read(batch)
		if n > 0 {
			if limit >= 0 && len(rows)+n > limit {
				n = limit - len(rows)
			}
			rows = append(rows, batch[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet dataset", "total_rows", len(rows))
	return rows, nil
}
