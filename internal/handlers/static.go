package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"happy-thoughts-backend/internal/services"
	"happy-thoughts-backend/internal/static"

	"github.com/go-chi/chi/v5"
)

// StaticHandler serves the read-only dataset
type StaticHandler struct {
	catalog *static.Catalog
}

// NewStaticHandler creates a new static handler
func NewStaticHandler(catalog *static.Catalog) *StaticHandler {
	return &StaticHandler{catalog: catalog}
}

// List handles GET /thoughts
func (h *StaticHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Recent(services.RecentLimit))
}

// Get handles GET /thoughts/{id}
func (h *StaticHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid ID format", http.StatusBadRequest)
		return
	}

	thought, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, static.ErrNotFound) {
			respondError(w, "Thought not found", http.StatusNotFound)
			return
		}
		respondError(w, "Could not fetch thought", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, thought)
}
