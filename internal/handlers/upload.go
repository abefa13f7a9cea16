package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/stylefacet/tagger/internal/copywriter"
	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/vision"
)

// HandleUpload accepts one product image, runs vision extraction and stores
// the assembled record for review. Vision failures degrade to a fully
// review-flagged record rather than an error response.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Limit file size to 10MB
	image, err := io.ReadAll(io.LimitReader(file, 10*1024*1024))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(image) >= 10*1024*1024 {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	productID := r.FormValue("product_id")
	if productID == "" {
		productID = fmt.Sprintf("upload_%d", time.Now().Unix())
	}
	provider := r.FormValue("provider")
	model := r.FormValue("model")

	if err := h.ensureUploadsDir(); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}
	savedPath := filepath.Join("uploads", productID+filepath.Ext(header.Filename))
	if err := os.WriteFile(savedPath, image, 0644); err != nil {
		h.writeError(w, "Failed to save image: "+err.Error(), http.StatusInternalServerError)
		return
	}

	attrs, err := h.visionService.Extract(r.Context(), image, mimeTypeFor(header.Filename), provider, model)
	if err != nil {
		slog.Warn("Vision analysis unavailable for upload", "product_id", productID, "err", err)
		attrs = vision.Unavailable()
	}

	record, err := h.assembler().Assemble(productID, attrs, metadata.Overrides{
		Gender: r.FormValue("gender"),
		Brand:  r.FormValue("brand"),
		Size:   r.FormValue("size"),
	})
	if err != nil {
		h.writeError(w, "Failed to assemble record: "+err.Error(), http.StatusInternalServerError)
		return
	}
	record.Copy = copywriter.Generate(record)

	batchID := h.recordStore.SetBatch("upload", []*metadata.Record{record})
	slog.Info("Uploaded product tagged", "product_id", productID, "batch_id", batchID, "needs_review", record.NeedsReview)

	h.writeJSON(w, map[string]any{
		"batch_id": batchID,
		"record":   record,
		"image":    savedPath,
	})
}

func mimeTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
