package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/stylefacet/tagger/internal/vocab"
)

// HandleVocabulary serves the allowed terms for one facet so the review UI
// can offer dropdowns. Hierarchical facets take a level query parameter.
func (h *Handler) HandleVocabulary(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	facetName := strings.TrimPrefix(r.URL.Path, "/api/vocabulary/")
	if facetName == "" || strings.Contains(facetName, "/") {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	v := h.snapshot.Current()
	hierarchical, exists := v.IsHierarchical(facetName)
	if !exists {
		h.writeError(w, "Unknown facet: "+facetName, http.StatusNotFound)
		return
	}
	level := 0
	if hierarchical {
		level = 1
		if raw := r.URL.Query().Get("level"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > vocab.MaxDepth {
				h.writeError(w, "Invalid level", http.StatusBadRequest)
				return
			}
			level = parsed
		}
	}

	terms, err := v.Terms(facetName, level)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]any{
		"facet":        facetName,
		"hierarchical": hierarchical,
		"level":        level,
		"terms":        terms,
	})
}
