package repository

import (
	"context"
	"errors"

	"happy-thoughts-backend/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned when an id is not well formed for the store
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateUsername is returned when the username unique constraint rejects an insert
	ErrDuplicateUsername = errors.New("username already exists")
)

// ThoughtRepository persists thoughts
type ThoughtRepository interface {
	ListRecent(ctx context.Context, limit int) ([]*models.Thought, error)
	GetByID(ctx context.Context, id string) (*models.Thought, error)
	Create(ctx context.Context, thought *models.Thought) error
	UpdateMessage(ctx context.Context, id, message string) (*models.Thought, error)
	IncrementHearts(ctx context.Context, id string) (*models.Thought, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository persists user accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
