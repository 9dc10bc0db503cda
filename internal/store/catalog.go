// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// UpsertGame inserts or replaces a catalog entry.
func (s *Store) UpsertGame(ctx context.Context, g *recommend.Game) error {
	genres, err := json.Marshal(g.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	tags, err := json.Marshal(g.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO games
			(id, title, genres, tags, price_cents, description, release_year, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, string(genres), string(tags),
		g.PriceCents, g.Description, g.ReleaseYear, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.ID, err)
	}
	return nil
}

// GetGames returns the full catalog in stable ID order.
func (s *Store) GetGames(ctx context.Context) ([]recommend.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, genres, tags, price_cents, description, release_year
		FROM games
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetGame returns one catalog entry, or sql.ErrNoRows when absent.
func (s *Store) GetGame(ctx context.Context, id string) (*recommend.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, genres, tags, price_cents, description, release_year
		FROM games
		WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query game: %w", err)
	}
	defer rows.Close()

	games, err := scanGames(rows)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, sql.ErrNoRows
	}
	return &games[0], nil
}

// GameCount returns the catalog size.
func (s *Store) GameCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}

func scanGames(rows *sql.Rows) ([]recommend.Game, error) {
	var out []recommend.Game
	for rows.Next() {
		var g recommend.Game
		var genres, tags, description sql.NullString

		if err := rows.Scan(&g.ID, &g.Title, &genres, &tags,
			&g.PriceCents, &description, &g.ReleaseYear); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}

		g.Description = description.String
		if genres.Valid && genres.String != "" {
			if err := json.Unmarshal([]byte(genres.String), &g.Genres); err != nil {
				return nil, fmt.Errorf("unmarshal genres for %s: %w", g.ID, err)
			}
		}
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &g.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags for %s: %w", g.ID, err)
			}
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
