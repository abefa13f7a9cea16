package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/stylefacet/tagger/internal/copywriter"
	"github.com/stylefacet/tagger/internal/metadata"
	"github.com/stylefacet/tagger/internal/storage"
)

func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		if r.URL.Query().Get("pending") == "true" {
			h.writeJSON(w, h.recordStore.GetPending())
			return
		}
		h.writeJSON(w, h.recordStore.GetAll())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleRecordDetail routes /api/records/{id}, /api/records/{id}/fields/{field}
// and /api/records/{id}/approve.
func (h *Handler) HandleRecordDetail(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/records/")
	parts := strings.Split(path, "/")

	switch {
	case len(parts) == 1:
		h.handleRecord(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "approve":
		h.handleApprove(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "fields":
		h.handleFieldCorrection(w, r, parts[0], parts[2])
	default:
		h.writeError(w, "Not found", http.StatusNotFound)
	}
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request, productID string) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	record, ok := h.getRecordOrError(w, productID)
	if !ok {
		return
	}
	h.writeJSON(w, record)
}

func (h *Handler) handleFieldCorrection(w http.ResponseWriter, r *http.Request, productID, field string) {
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	assembler := h.assembler()
	err := h.recordStore.Update(productID, func(record *metadata.Record) error {
		if err := assembler.Correct(record, field, request.Value); err != nil {
			return err
		}
		// Listing copy derives from the corrected display values.
		if record.Copy != nil {
			record.Copy = copywriter.Generate(record)
		}
		return nil
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.writeError(w, "Record not found", http.StatusNotFound)
		return
	case errors.Is(err, metadata.ErrApproved):
		h.writeError(w, "Record is approved and immutable", http.StatusConflict)
		return
	case errors.Is(err, metadata.ErrUnknownField):
		h.writeError(w, "Unknown field: "+field, http.StatusBadRequest)
		return
	case err != nil:
		h.writeError(w, "Failed to apply correction: "+err.Error(), http.StatusInternalServerError)
		return
	}

	record, ok := h.getRecordOrError(w, productID)
	if !ok {
		return
	}
	h.writeJSON(w, record)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request, productID string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	assembler := h.assembler()
	err := h.recordStore.Update(productID, func(record *metadata.Record) error {
		return assembler.Approve(record)
	})

	var approvalErr *metadata.ApprovalError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.writeError(w, "Record not found", http.StatusNotFound)
		return
	case errors.As(err, &approvalErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		if encErr := json.NewEncoder(w).Encode(map[string]any{
			"error":  "approval blocked",
			"fields": approvalErr.Fields,
		}); encErr != nil {
			h.writeError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	case err != nil:
		h.writeError(w, "Failed to approve record: "+err.Error(), http.StatusInternalServerError)
		return
	}

	record, ok := h.getRecordOrError(w, productID)
	if !ok {
		return
	}
	h.writeJSON(w, record)
}
