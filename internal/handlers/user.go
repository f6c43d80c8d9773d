package handlers

import (
	"errors"
	"net/http"

	"happy-thoughts-backend/internal/repository"
	"happy-thoughts-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles registration and login
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CredentialsRequest is the body of register and login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			respondError(w, "Username already exists", http.StatusBadRequest)
		case errors.As(err, &vErr):
			respondError(w, vErr.Message, http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("Registration failed")
			respondError(w, "Could not register user", http.StatusInternalServerError)
		}
		return
	}

	log.Info().
		Str("user_id", res.UserID).
		Str("username", res.Username).
		Msg("User registered")

	respondJSON(w, http.StatusCreated, res)
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		respondErrorDetails(w, "Login failed", err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, "Credentials not correct", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login failed")
		respondError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, res)
}
