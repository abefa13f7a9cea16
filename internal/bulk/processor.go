// Package bulk iterates product datasets and runs each product through the
// vision and assembly pipeline. Products are independent, so work is spread
// over a bounded pool; hierarchy levels inside one product are still
// validated strictly top-down by the assembler.
package bulk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/stylefacet/tagger/internal/copywriter"
	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/vision"
)

// Result is the outcome of processing one product row.
type Result struct {
	Row    ProductRow       `json:"row"`
	Record *metadata.Record `json:"record,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Processor runs the tag pipeline over many products.
type Processor struct {
	assembler *metadata.Assembler
	vision    *vision.Service
	client    *http.Client

	Provider  string
	Model     string
	ImagesDir string
}

func NewProcessor(assembler *metadata.Assembler, visionService *vision.Service, provider, model, imagesDir string) *Processor {
	return &Processor{
		assembler: assembler,
		vision:    visionService,
		client:    &http.Client{Timeout: 30 * time.Second},
		Provider:  provider,
		Model:     model,
		ImagesDir: imagesDir,
	}
}

// Run processes every row with at most concurrency vision calls in flight.
// Results come back sorted by product ID so exports are stable.
func (p *Processor) Run(ctx context.Context, rows []ProductRow, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	slog.Info("Processing products", "count", len(rows), "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan Result, len(rows))

	for i, row := range rows {
		wg.Add(1)
		go func(idx int, row ProductRow) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing product", "id", row.ProductID, "progress", fmt.Sprintf("%d/%d", idx+1, len(rows)))
			resultsChan <- p.processRow(ctx, row)
		}(i, row)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]Result, 0, len(rows))
	for result := range resultsChan {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Row.ProductID < results[j].Row.ProductID
	})
	return results
}

func (p *Processor) processRow(ctx context.Context, row ProductRow) Result {
	result := Result{Row: row}

	attrs := p.extractAttributes(ctx, row)

	record, err := p.assembler.Assemble(row.ProductID, attrs, metadata.Overrides{
		Gender: row.Gender,
		Brand:  row.Brand,
		Size:   row.Size,
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to assemble record: %v", err)
		return result
	}
	record.Copy = copywriter.Generate(record)

	result.Record = record
	return result
}

// extractAttributes runs the vision call for one row. Any failure — missing
// image, provider error, unparseable response — degrades to the unavailable
// sentinel so the record is assembled anyway and lands in full human review.
func (p *Processor) extractAttributes(ctx context.Context, row ProductRow) metadata.AttributeMap {
	imagePath := p.resolveImage(row)
	if imagePath == "" && row.ImageURL != "" {
		fetched, err := p.fetchImage(ctx, row)
		if err != nil {
			slog.Warn("Image download failed", "id", row.ProductID, "url", row.ImageURL, "err", err)
		} else {
			imagePath = fetched
		}
	}
	if imagePath == "" {
		slog.Warn("No image available for product", "id", row.ProductID)
		return vision.Unavailable()
	}

	attrs, err := p.vision.ExtractFromFile(ctx, imagePath, p.Provider, p.Model)
	if err != nil {
		slog.Warn("Vision analysis unavailable", "id", row.ProductID, "err", err)
		return vision.Unavailable()
	}
	return attrs
}

func (p *Processor) resolveImage(row ProductRow) string {
	if row.Image == "" {
		return ""
	}
	if p.ImagesDir != "" {
		candidate := filepath.Join(p.ImagesDir, row.Image)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if _, err := os.Stat(row.Image); err == nil {
		return row.Image
	}
	return ""
}

// fetchImage downloads the row's image URL into the images directory so
// repeated runs over the same dataset hit the cache instead of the network.
// The download goes through a temp file and a rename, so a partial download
// never poisons the cache.
func (p *Processor) fetchImage(ctx context.Context, row ProductRow) (string, error) {
	dir := p.ImagesDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "tagger-images")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image cache directory: %w", err)
	}

	target := filepath.Join(dir, cacheName(row))
	if _, err := os.Stat(target); err == nil {
		slog.Debug("Image already cached", "id", row.ProductID, "path", target)
		return target, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, row.ImageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, "download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move image into cache: %w", err)
	}

	slog.Info("Downloaded product image", "id", row.ProductID, "url", row.ImageURL, "path", target)
	return target, nil
}

// cacheName derives a stable cache filename from the product ID and the
// URL's extension.
func cacheName(row ProductRow) string {
	ext := ".jpg"
	if u, err := url.Parse(row.ImageURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	return row.ProductID + ext
}
