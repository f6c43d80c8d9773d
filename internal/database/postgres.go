package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS thoughts (
	id         TEXT PRIMARY KEY,
	message    TEXT NOT NULL,
	hearts     INTEGER NOT NULL DEFAULT 0 CHECK (hearts >= 0),
	created_at TIMESTAMPTZ NOT NULL,
	user_id    TEXT REFERENCES users (id)
);

CREATE INDEX IF NOT EXISTS thoughts_created_at_idx ON thoughts (created_at DESC);
`

// ConnectPostgres opens a connection pool, pings it and ensures the tables exist
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Info().Msg("Database connection established")
	return db, nil
}
