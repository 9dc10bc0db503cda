// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// UpsertUser records a user and their onboarding genre selections.
func (s *Store) UpsertUser(ctx context.Context, userID string, onboardingGenres []string) error {
	genres, err := json.Marshal(onboardingGenres)
	if err != nil {
		return fmt.Errorf("marshal onboarding genres: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (id, onboarding_genres, created_at)
		VALUES (?, ?, ?)`,
		userID, string(genres), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", userID, err)
	}
	return nil
}

// GetOnboardingGenres returns the genres a user selected during
// onboarding. An unknown user yields an empty slice, not an error.
func (s *Store) GetOnboardingGenres(ctx context.Context, userID string) ([]string, error) {
	var genres sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT onboarding_genres FROM users WHERE id = ?`, userID).Scan(&genres)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query onboarding genres: %w", err)
	}

	if !genres.Valid || genres.String == "" {
		return nil, nil
	}

	var out []string
	if err := json.Unmarshal([]byte(genres.String), &out); err != nil {
		return nil, fmt.Errorf("unmarshal onboarding genres: %w", err)
	}
	return out, nil
}
