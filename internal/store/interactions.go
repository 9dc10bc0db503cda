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

// AppendInteraction appends one event to the interaction log. The log is
// append-only; there is no update path.
func (s *Store) AppendInteraction(ctx context.Context, in *recommend.Interaction) error {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}

	genres, err := json.Marshal(in.GameGenres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	tags, err := json.Marshal(in.GameTags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	snapshot, err := json.Marshal(in.GenreSnapshot)
	if err != nil {
		return fmt.Errorf("marshal genre snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interactions
			(user_id, game_id, action, ts, session_id, view_duration_ms, genre_snapshot, game_genres, game_tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, in.GameID, in.Action.String(), in.Timestamp,
		in.SessionID, in.ViewDuration.Milliseconds(), string(snapshot), string(genres), string(tags),
	)
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// GetInteractions returns all interactions since the given time, oldest
// first.
func (s *Store) GetInteractions(ctx context.Context, since time.Time) ([]recommend.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, game_id, action, ts, session_id, view_duration_ms, genre_snapshot, game_genres, game_tags
		FROM interactions
		WHERE ts >= ?
		ORDER BY ts ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []recommend.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// GetUserHistory returns the distinct IDs of every game the user has
// interacted with, in any way. The engine uses this as its exclusion set.
func (s *Store) GetUserHistory(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT game_id FROM interactions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetCandidates returns catalog games the user has not interacted with,
// in stable ID order, up to limit.
func (s *Store) GetCandidates(ctx context.Context, userID string, limit int) ([]recommend.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.title, g.genres, g.tags, g.price_cents, g.description, g.release_year
		FROM games g
		WHERE g.id NOT IN (
			SELECT DISTINCT game_id FROM interactions WHERE user_id = ?
		)
		ORDER BY g.id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// ActiveUsers returns the IDs of users with at least one interaction in
// the window. Used by the batch regeneration job.
func (s *Store) ActiveUsers(ctx context.Context, window time.Duration) ([]string, error) {
	since := time.Now().Add(-window)
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM interactions WHERE ts >= ? ORDER BY user_id`, since)
	if err != nil {
		return nil, fmt.Errorf("query active users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan active user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PruneInteractions deletes interactions older than the retention window
// and returns the number removed. The exclusion guarantee only spans the
// retained log, so retention should comfortably exceed any user's realistic
// swipe recall.
func (s *Store) PruneInteractions(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := s.db.ExecContext(ctx, `DELETE FROM interactions WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune interactions: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("pruned interaction log")
	}
	return n, nil
}

// InteractionCount returns the total number of logged interactions.
func (s *Store) InteractionCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

func scanInteraction(rows *sql.Rows) (recommend.Interaction, error) {
	var in recommend.Interaction
	var action string
	var sessionID, snapshot, genres, tags sql.NullString
	var durationMS int64

	if err := rows.Scan(&in.UserID, &in.GameID, &action, &in.Timestamp,
		&sessionID, &durationMS, &snapshot, &genres, &tags); err != nil {
		return in, fmt.Errorf("scan interaction: %w", err)
	}

	kind, ok := recommend.ParseActionKind(action)
	if !ok {
		return in, fmt.Errorf("unknown action %q in interaction log", action)
	}
	in.Action = kind
	in.SessionID = sessionID.String
	in.ViewDuration = time.Duration(durationMS) * time.Millisecond

	if snapshot.Valid && snapshot.String != "" {
		if err := json.Unmarshal([]byte(snapshot.String), &in.GenreSnapshot); err != nil {
			return in, fmt.Errorf("unmarshal genre snapshot: %w", err)
		}
	}
	if genres.Valid && genres.String != "" {
		if err := json.Unmarshal([]byte(genres.String), &in.GameGenres); err != nil {
			return in, fmt.Errorf("unmarshal genres: %w", err)
		}
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &in.GameTags); err != nil {
			return in, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return in, nil
}
