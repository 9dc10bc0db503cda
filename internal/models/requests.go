// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package models

import (
	"time"
)

// InteractionRequest is the body of POST /api/v1/interactions.
// ViewDurationMS above the long-view threshold upgrades a plain view.
type InteractionRequest struct {
	UserID         string    `json:"user_id" validate:"required,max=128"`
	GameID         string    `json:"game_id" validate:"required,max=128"`
	Action         string    `json:"action" validate:"required,oneof=super_like wishlist_add like view_details long_view skip dislike"`
	Timestamp      time.Time `json:"timestamp,omitempty"`
	SessionID      string    `json:"session_id,omitempty" validate:"omitempty,max=128"`
	ViewDurationMS int64     `json:"view_duration_ms,omitempty" validate:"omitempty,gte=0"`
	GenrePrefs     []string  `json:"genre_prefs,omitempty" validate:"omitempty,max=16,dive,max=64"`
	GameGenres     []string  `json:"game_genres,omitempty" validate:"omitempty,max=16,dive,max=64"`
	GameTags       []string  `json:"game_tags,omitempty" validate:"omitempty,max=32,dive,max=64"`
}

// GameUpsertRequest is the body of PUT /api/v1/catalog/games.
type GameUpsertRequest struct {
	ID          string   `json:"id" validate:"required,max=128"`
	Title       string   `json:"title" validate:"required,max=256"`
	Genres      []string `json:"genres" validate:"required,min=1,max=16,dive,required,max=64"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=32,dive,max=64"`
	PriceCents  int      `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=8192"`
	ReleaseYear int      `json:"release_year,omitempty" validate:"omitempty,gte=1970,lte=2100"`
}

// UserUpsertRequest is the body of PUT /api/v1/users.
type UserUpsertRequest struct {
	ID               string   `json:"id" validate:"required,max=128"`
	OnboardingGenres []string `json:"onboarding_genres,omitempty" validate:"omitempty,max=16,dive,max=64"`
}
