// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package cache

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/indiedeck/indiedeck/internal/metrics"
	"github.com/indiedeck/indiedeck/internal/recommend"
)

// GenerateFunc produces a fresh ranked list on a cache miss.
type GenerateFunc func(ctx context.Context, req recommend.Request) (*recommend.Response, error)

// Loader fronts a Store with single-flight regeneration: when many
// requests miss the same key at once, exactly one generation runs and
// the rest wait for its result.
type Loader struct {
	store    Store
	generate GenerateFunc
	ttl      time.Duration
	group    singleflight.Group
	logger   zerolog.Logger
}

// NewLoader creates a loader over the given store and generator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(store Store, generate GenerateFunc, ttl time.Duration, logger zerolog.Logger) *Loader {
	return &Loader{
		store:    store,
		generate: generate,
		ttl:      ttl,
		logger:   logger.With().Str("component", "cache").Logger(),
	}
}

// Get returns the user's ranked list, serving from cache when fresh and
// regenerating through single-flight on a miss. The returned boolean
// reports a cache hit.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (l *Loader) Get(ctx context.Context, req recommend.Request) (*recommend.Response, bool, error) {
	key := RecommendationKey(req.UserID, req.Limit)

	if resp, ok := l.lookup(ctx, key); ok {
		metrics.CacheHits.Inc()
		resp.Metadata.CacheHit = true
		return resp, true, nil
	}
	metrics.CacheMisses.Inc()

	v, err, shared := l.group.Do(key, func() (any, error) {
		// A waiter that queued behind the leader may find the entry
		// already written.
		if resp, ok := l.lookup(ctx, key); ok {
			return resp, nil
		}
		return l.regenerate(ctx, key, req)
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		l.logger.Debug().Str("key", key).Msg("shared regeneration result")
	}

	return v.(*recommend.Response), false, nil
}

// Invalidate drops every cached list for the user. The next request
// regenerates.
func (l *Loader) Invalidate(ctx context.Context, userID string) error {
	if err := l.store.DeletePrefix(ctx, UserPrefix(userID)); err != nil {
		return fmt.Errorf("invalidate %s: %w", userID, err)
	}
	metrics.CacheInvalidations.Inc()
	l.logger.Debug().Str("user_id", userID).Msg("cache invalidated")
	return nil
}

func (l *Loader) lookup(ctx context.Context, key string) (*recommend.Response, bool) {
	data, ok, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn().Str("key", key).Err(err).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var resp recommend.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		// Corrupted entry. Drop it and regenerate.
		l.logger.Warn().Str("key", key).Err(err).Msg("dropping corrupt cache entry")
		_ = l.store.Delete(ctx, key)
		return nil, false
	}
	return &resp, true
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (l *Loader) regenerate(ctx context.Context, key string, req recommend.Request) (*recommend.Response, error) {
	start := time.Now()
	resp, err := l.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.CacheRegenerations.Inc()
	metrics.RegenerationDuration.Observe(time.Since(start).Seconds())

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	if err := l.store.Set(ctx, key, data, l.ttl); err != nil {
		// Serve the fresh result even when the write-back fails.
		l.logger.Warn().Str("key", key).Err(err).Msg("cache write failed")
	}
	return resp, nil
}
