package handlers

import (
	"errors"
	"net/http"

	"happy-thoughts-backend/internal/middleware"
	"happy-thoughts-backend/internal/repository"
	"happy-thoughts-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ThoughtHandler handles thought-related HTTP requests
type ThoughtHandler struct {
	thoughtService *services.ThoughtService
}

// NewThoughtHandler creates a new thought handler
func NewThoughtHandler(thoughtService *services.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{
		thoughtService: thoughtService,
	}
}

// MessageRequest is the body of create and update
type MessageRequest struct {
	Message string `json:"message"`
}

// List handles GET /thoughts
func (h *ThoughtHandler) List(w http.ResponseWriter, r *http.Request) {
	thoughts, err := h.thoughtService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list thoughts")
		respondError(w, "Could not fetch thoughts", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, thoughts)
}

// Get handles GET /thoughts/{id}
func (h *ThoughtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	thought, err := h.thoughtService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err, id, "Could not fetch thought", "")
		return
	}
	respondJSON(w, http.StatusOK, thought)
}

// Create handles POST /thoughts
func (h *ThoughtHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req MessageRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	thought, err := h.thoughtService.Create(ctx, req.Message, userID)
	if err != nil {
		h.fail(w, err, "", "Could not create thought", "")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("thought_id", thought.ID).
		Msg("Thought created")

	respondJSON(w, http.StatusCreated, thought)
}

// Update handles PUT /thoughts/{id}
func (h *ThoughtHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	var req MessageRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	thought, err := h.thoughtService.Update(ctx, id, req.Message, userID)
	if err != nil {
		h.fail(w, err, id, "Could not update thought", "You can only edit your own thoughts")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("thought_id", id).
		Msg("Thought updated")

	respondJSON(w, http.StatusOK, thought)
}

// Like handles PATCH /thoughts/{id}/like
func (h *ThoughtHandler) Like(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	thought, err := h.thoughtService.Like(r.Context(), id)
	if err != nil {
		h.fail(w, err, id, "Could not like thought", "")
		return
	}
	respondJSON(w, http.StatusOK, thought)
}

// Delete handles DELETE /thoughts/{id}
func (h *ThoughtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := h.thoughtService.Delete(ctx, id, userID); err != nil {
		h.fail(w, err, id, "Could not delete thought", "You can only delete your own thoughts")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("thought_id", id).
		Msg("Thought deleted")

	respondJSON(w, http.StatusOK, map[string]string{"message": "Thought deleted"})
}

// fail maps a service error to a status and error body
func (h *ThoughtHandler) fail(w http.ResponseWriter, err error, id, internalMsg, forbiddenMsg string) {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		respondError(w, "Invalid ID format", http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, "Thought not found", http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, forbiddenMsg, http.StatusForbidden)
	case errors.As(err, &vErr):
		respondError(w, vErr.Message, http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("thought_id", id).Msg(internalMsg)
		respondError(w, internalMsg, http.StatusInternalServerError)
	}
}
