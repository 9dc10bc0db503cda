// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package algorithms contains the scoring signals blended by the engine:
// collaborative filtering, content matching, contextual boosts and
// popularity, plus the shared similarity primitives they are built on.
package algorithms

import (
	"context"
	"math"
	"sync"
	"time"
)

// BaseSignal provides common training state management for signals.
// Embed it and guard Train bodies with TrainLock/TrainUnlock and Score
// bodies with ScoreLock/ScoreUnlock.
type BaseSignal struct {
	mu            sync.RWMutex
	trained       bool
	version       int
	lastTrainedAt time.Time
}

// TrainLock acquires the write lock for training.
func (b *BaseSignal) TrainLock() { b.mu.Lock() }

// TrainUnlock releases the write lock.
func (b *BaseSignal) TrainUnlock() { b.mu.Unlock() }

// ScoreLock acquires the read lock for scoring.
func (b *BaseSignal) ScoreLock() { b.mu.RLock() }

// ScoreUnlock releases the read lock.
func (b *BaseSignal) ScoreUnlock() { b.mu.RUnlock() }

// MarkTrained records a successful training run. Call with the write
// lock held.
func (b *BaseSignal) MarkTrained() {
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

// IsTrained reports whether the signal has been trained.
func (b *BaseSignal) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the model version, incremented on each training run.
func (b *BaseSignal) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the signal last trained.
func (b *BaseSignal) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// timeNow is stubbed in tests.
var timeNow = time.Now

// contextCancelled reports whether ctx is done.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// normalizeScores rescales scores to [0, 1] with min-max normalization.
// A constant map normalizes to 0.5. The map is modified in place and
// returned for convenience.
func normalizeScores(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}

	minScore := math.Inf(1)
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	spread := maxScore - minScore
	if spread == 0 {
		for k := range scores {
			scores[k] = 0.5
		}
		return scores
	}

	for k, s := range scores {
		scores[k] = (s - minScore) / spread
	}
	return scores
}
