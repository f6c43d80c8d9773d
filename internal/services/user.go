package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"happy-thoughts-backend/internal/models"
	"happy-thoughts-backend/internal/repository"
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// AuthResult is returned by register and login
type AuthResult struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

// UserService handles registration, login and token authentication
type UserService struct {
	userRepo    repository.UserRepository
	credentials *Credentials
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, credentials *Credentials) *UserService {
	return &UserService{
		userRepo:    userRepo,
		credentials: credentials,
	}
}

// Register creates an account and returns a fresh access token
func (s *UserService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username", "username is required")
	}
	if password == "" {
		return nil, invalid("password", "password is required")
	}
	if len(password) > MaxPasswordBytes {
		return nil, invalid("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}

	// Fast path only; the store's unique constraint decides.
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, repository.ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := s.credentials.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResult(user)
}

// Login checks the password and returns a fresh access token. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.credentials.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authResult(user)
}

// Authenticate resolves an access token to its user
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.credentials.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccessDenied
		case errors.Is(err, repository.ErrInvalidID):
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.credentials.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token,
	}, nil
}
