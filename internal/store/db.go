// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package store persists interactions, the game catalog and user
// onboarding data in DuckDB, and implements the engine's DataProvider.
// The interaction log is append-only; corrections are new events.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/indiedeck/indiedeck/internal/logging"
)

// Store wraps the DuckDB database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the database at path and runs migrations.
// An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	// DuckDB is single-writer.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		logger: logging.With().Str("component", "store").Logger(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS interactions_seq START 1`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id            BIGINT PRIMARY KEY DEFAULT nextval('interactions_seq'),
			user_id       VARCHAR NOT NULL,
			game_id       VARCHAR NOT NULL,
			action        VARCHAR NOT NULL,
			ts            TIMESTAMP NOT NULL,
			session_id    VARCHAR,
			view_duration_ms BIGINT DEFAULT 0,
			genre_snapshot VARCHAR,
			game_genres   VARCHAR,
			game_tags     VARCHAR
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_ts ON interactions (ts)`,
		`CREATE TABLE IF NOT EXISTS games (
			id           VARCHAR PRIMARY KEY,
			title        VARCHAR NOT NULL,
			genres       VARCHAR,
			tags         VARCHAR,
			price_cents  BIGINT DEFAULT 0,
			description  VARCHAR,
			release_year INTEGER DEFAULT 0,
			updated_at   TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id                VARCHAR PRIMARY KEY,
			onboarding_genres VARCHAR,
			created_at        TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	s.logger.Debug().Msg("migrations applied")
	return nil
}
