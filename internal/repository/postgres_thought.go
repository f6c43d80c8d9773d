package repository

import (
	"context"
	"errors"
	"fmt"

	"happy-thoughts-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const thoughtColumns = `id, message, hearts, created_at, user_id`

// PostgresThoughtRepository handles database operations for thoughts
type PostgresThoughtRepository struct {
	db *pgxpool.Pool
}

// NewPostgresThoughtRepository creates a new thought repository
func NewPostgresThoughtRepository(db *pgxpool.Pool) *PostgresThoughtRepository {
	return &PostgresThoughtRepository{db: db}
}

// ListRecent returns up to limit thoughts, newest first
func (r *PostgresThoughtRepository) ListRecent(ctx context.Context, limit int) ([]*models.Thought, error) {
	query := `
		SELECT ` + thoughtColumns + `
		FROM thoughts
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	defer rows.Close()

	thoughts := make([]*models.Thought, 0, limit)
	for rows.Next() {
		thought, err := scanThought(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		thoughts = append(thoughts, thought)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating thoughts: %w", err)
	}

	return thoughts, nil
}

// GetByID retrieves a thought by ID
func (r *PostgresThoughtRepository) GetByID(ctx context.Context, id string) (*models.Thought, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	query := `SELECT ` + thoughtColumns + ` FROM thoughts WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// Create inserts a thought and assigns its ID
func (r *PostgresThoughtRepository) Create(ctx context.Context, thought *models.Thought) error {
	query := `
		INSERT INTO thoughts (id, message, hearts, created_at, user_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	id := uuid.New().String()
	_, err := r.db.Exec(ctx, query,
		id, thought.Message, thought.Hearts, thought.CreatedAt, nullable(thought.UserID),
	)
	if err != nil {
		return fmt.Errorf("failed to create thought: %w", err)
	}
	thought.ID = id
	return nil
}

// UpdateMessage replaces the message of a thought
func (r *PostgresThoughtRepository) UpdateMessage(ctx context.Context, id, message string) (*models.Thought, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	query := `UPDATE thoughts SET message = $2 WHERE id = $1 RETURNING ` + thoughtColumns
	return r.queryOne(ctx, query, id, message)
}

// IncrementHearts adds one heart in a single statement
func (r *PostgresThoughtRepository) IncrementHearts(ctx context.Context, id string) (*models.Thought, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	query := `UPDATE thoughts SET hearts = hearts + 1 WHERE id = $1 RETURNING ` + thoughtColumns
	return r.queryOne(ctx, query, id)
}

// Delete deletes a thought by ID
func (r *PostgresThoughtRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	result, err := r.db.Exec(ctx, `DELETE FROM thoughts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete thought: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresThoughtRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Thought, error) {
	thought, err := scanThought(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	return thought, nil
}

func scanThought(row pgx.Row) (*models.Thought, error) {
	var (
		thought models.Thought
		userID  *string
	)
	if err := row.Scan(
		&thought.ID, &thought.Message, &thought.Hearts, &thought.CreatedAt, &userID,
	); err != nil {
		return nil, err
	}
	if userID != nil {
		thought.UserID = *userID
	}
	return &thought, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
