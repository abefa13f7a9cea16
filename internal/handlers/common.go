// Package handlers exposes the review HTTP API: browse assembled records,
// correct individual fields, approve finished records, and tag freshly
// uploaded images.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/storage"
	"github.com/stylefacet/tagger/internal/vision"
	"github.com/stylefacet/tagger/internal/vocab"
)

type Handler struct {
	recordStore   *storage.RecordStore
	snapshot      *vocab.Snapshot
	visionService *vision.Service
}

func New(snapshot *vocab.Snapshot) *Handler {
	return &Handler{
		recordStore:   storage.New(),
		snapshot:      snapshot,
		visionService: vision.NewService(),
	}
}

// assembler builds against the current vocabulary snapshot, so a vocabulary
// reload applies to later requests without restarting the server.
func (h *Handler) assembler() *metadata.Assembler {
	return metadata.NewAssembler(h.snapshot.Current())
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) getRecordOrError(w http.ResponseWriter, productID string) (*metadata.Record, bool) {
	record, exists := h.recordStore.Get(productID)
	if !exists {
		h.writeError(w, "Record not found", http.StatusNotFound)
		return nil, false
	}
	return record, true
}

func (h *Handler) ensureUploadsDir() error {
	return os.MkdirAll("uploads", 0755)
}
