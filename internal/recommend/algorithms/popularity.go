// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package algorithms

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// popularityHalfLife is the recency half-life for popularity mass. A
// like from two weeks ago counts half of one from today, keeping the
// signal from ossifying around old hits.
const popularityHalfLife = 14 * 24 * time.Hour

// PopularitySignal scores candidates by recency-decayed positive
// interaction volume across all users. It is user-independent and acts
// as the fallback that keeps lists non-empty for brand-new users.
type PopularitySignal struct {
	BaseSignal

	scores map[string]float64
}

// NewPopularitySignal creates a popularity signal.
func NewPopularitySignal() *PopularitySignal {
	return &PopularitySignal{}
}

// Name returns the signal name.
func (s *PopularitySignal) Name() string {
	return recommend.SignalPopularity
}

// Train accumulates decayed positive interaction mass per game and
// normalizes it once, so scoring is a map lookup.
func (s *PopularitySignal) Train(ctx context.Context, interactions []recommend.Interaction, _ []recommend.Game) error {
	now := timeNow()
	mass := make(map[string]float64)

	for i := range interactions {
		if contextCancelled(ctx) {
			return ctx.Err()
		}

		in := &interactions[i]
		w := in.Action.Weight()
		if w <= 0 {
			continue
		}

		age := now.Sub(in.Timestamp)
		if age < 0 {
			age = 0
		}
		mass[in.GameID] += w * math.Exp2(-float64(age)/float64(popularityHalfLife))
	}

	normalizeScores(mass)

	s.TrainLock()
	s.scores = mass
	s.MarkTrained()
	s.TrainUnlock()

	return nil
}

// Score returns the precomputed popularity for each candidate.
func (s *PopularitySignal) Score(ctx context.Context, req recommend.ScoreRequest) (map[string]float64, error) {
	s.ScoreLock()
	defer s.ScoreUnlock()

	if !s.trained {
		return nil, fmt.Errorf("%s: not trained", s.Name())
	}
	if contextCancelled(ctx) {
		return nil, ctx.Err()
	}

	scores := make(map[string]float64, len(req.Candidates))
	for _, gameID := range req.Candidates {
		if v, ok := s.scores[gameID]; ok {
			scores[gameID] = v
		}
	}
	return scores, nil
}
