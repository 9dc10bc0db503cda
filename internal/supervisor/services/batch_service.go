// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package services

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// ActiveUserLister lists users with recent activity.
type ActiveUserLister interface {
	ActiveUsers(ctx context.Context, window time.Duration) ([]string, error)
}

// ListWarmer regenerates a user's ranked list through the cache, so the
// fresh result lands in the cache for their next request.
type ListWarmer interface {
	Get(ctx context.Context, req recommend.Request) (*recommend.Response, bool, error)
	Invalidate(ctx context.Context, userID string) error
}

// BatchServiceConfig configures the batch cache warmer.
type BatchServiceConfig struct {
	// Interval is how often the batch runs.
	Interval time.Duration

	// ActiveWindow selects which users count as active.
	ActiveWindow time.Duration

	// Limit is the list size to pre-generate.
	Limit int
}

// BatchService periodically regenerates ranked lists for recently active
// users, so their next session opens on a warm cache. Each user is
// retried independently with exponential backoff; one failing user never
// aborts the batch.
type BatchService struct {
	users  ActiveUserLister
	warmer ListWarmer
	config BatchServiceConfig
	logger zerolog.Logger
	name   string
}

// NewBatchService creates the batch cache warmer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBatchService(users ActiveUserLister, warmer ListWarmer, cfg BatchServiceConfig, logger zerolog.Logger) *BatchService {
	return &BatchService{
		users:  users,
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "batch").Logger(),
		name:   "batch-service",
	}
}

// Serve implements suture.Service.
func (s *BatchService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.config.Interval = time.Hour
	}
	if s.config.ActiveWindow <= 0 {
		s.config.ActiveWindow = 7 * 24 * time.Hour
	}

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Dur("active_window", s.config.ActiveWindow).
		Msg("batch service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("batch service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

func (s *BatchService) runBatch(ctx context.Context) {
	start := time.Now()

	userIDs, err := s.users.ActiveUsers(ctx, s.config.ActiveWindow)
	if err != nil {
		s.logger.Warn().Err(err).Msg("listing active users failed")
		return
	}

	var failed int
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return
		}
		if err := s.warmUser(ctx, userID); err != nil {
			failed++
			s.logger.Warn().Str("user_id", userID).Err(err).Msg("cache warm failed")
		}
	}

	s.logger.Info().
		Int("users", len(userIDs)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("batch regeneration complete")
}

// warmUser drops the user's cached lists and regenerates with retry.
func (s *BatchService) warmUser(ctx context.Context, userID string) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(), 3), ctx)

	return backoff.Retry(func() error {
		if err := s.warmer.Invalidate(ctx, userID); err != nil {
			return err
		}
		_, _, err := s.warmer.Get(ctx, recommend.Request{
			UserID: userID,
			Limit:  s.config.Limit,
		})
		return err
	}, policy)
}

// String implements fmt.Stringer for supervisor logging.
func (s *BatchService) String() string {
	return s.name
}
