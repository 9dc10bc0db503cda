// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package cache caches generated ranked lists with TTL expiry and
// single-flight regeneration. Two backends are provided: an in-process
// map for single-node deployments and Badger for persistence across
// restarts.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is a TTL key-value store for serialized ranked lists. Get reports
// a miss through the boolean, not an error; errors mean the backend
// itself failed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key with the given prefix. Used to
	// invalidate all of a user's cached lists at once.
	DeletePrefix(ctx context.Context, prefix string) error

	Close() error
}

// Key layout: rec:<userID>:<limit>. UserPrefix covers every limit variant
// for one user.

// RecommendationKey builds the cache key for one user's ranked list at a
// given limit.
func RecommendationKey(userID string, limit int) string {
	return fmt.Sprintf("rec:%s:%d", userID, limit)
}

// UserPrefix builds the key prefix covering all of a user's entries.
func UserPrefix(userID string) string {
	return "rec:" + userID + ":"
}
