// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package algorithms

import (
	"context"
	"fmt"
	"strings"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// Time-of-day buckets. Hour ranges are local to the user.
const (
	bucketMorning   = "morning"   // 05-11
	bucketAfternoon = "afternoon" // 12-17
	bucketEvening   = "evening"   // 18-22
	bucketNight     = "night"     // 23-04
)

// ContextualSignal scores candidates by how well their genres fit the
// current time-of-day bucket, learned globally from positively rated
// interactions. Requests without context score nothing and the engine
// redistributes the weight.
type ContextualSignal struct {
	BaseSignal

	// bucketGenres maps bucket -> genre -> positive interaction mass.
	bucketGenres map[string]map[string]float64

	// gameGenres maps game ID -> lowercase genres.
	gameGenres map[string][]string
}

// NewContextualSignal creates a contextual signal.
func NewContextualSignal() *ContextualSignal {
	return &ContextualSignal{}
}

// Name returns the signal name.
func (s *ContextualSignal) Name() string {
	return recommend.SignalContextual
}

// Train learns per-bucket genre preferences from positive interactions.
func (s *ContextualSignal) Train(ctx context.Context, interactions []recommend.Interaction, games []recommend.Game) error {
	buckets := make(map[string]map[string]float64)

	for i := range interactions {
		if contextCancelled(ctx) {
			return ctx.Err()
		}

		in := &interactions[i]
		w := in.Action.Weight()
		if w <= 0 {
			continue
		}

		bucket := hourBucket(in.Timestamp.Hour())
		bg := buckets[bucket]
		if bg == nil {
			bg = make(map[string]float64)
			buckets[bucket] = bg
		}
		for _, g := range in.GameGenres {
			bg[strings.ToLower(g)] += w
		}
	}

	genres := make(map[string][]string, len(games))
	for i := range games {
		lowered := make([]string, len(games[i].Genres))
		for j, g := range games[i].Genres {
			lowered[j] = strings.ToLower(g)
		}
		genres[games[i].ID] = lowered
	}

	s.TrainLock()
	s.bucketGenres = buckets
	s.gameGenres = genres
	s.MarkTrained()
	s.TrainUnlock()

	return nil
}

// Score rates candidates against the request's time-of-day bucket.
func (s *ContextualSignal) Score(ctx context.Context, req recommend.ScoreRequest) (map[string]float64, error) {
	s.ScoreLock()
	defer s.ScoreUnlock()

	if !s.trained {
		return nil, fmt.Errorf("%s: not trained", s.Name())
	}
	if contextCancelled(ctx) {
		return nil, ctx.Err()
	}

	if req.Context == nil {
		return map[string]float64{}, nil
	}

	bg := s.bucketGenres[hourBucket(req.Context.TimeOfDay)]
	if len(bg) == 0 {
		return map[string]float64{}, nil
	}

	scores := make(map[string]float64, len(req.Candidates))
	for _, gameID := range req.Candidates {
		var sum float64
		for _, g := range s.gameGenres[gameID] {
			sum += bg[g]
		}
		if sum > 0 {
			scores[gameID] = sum
		}
	}

	if len(scores) == 0 {
		return map[string]float64{}, nil
	}
	return normalizeScores(scores), nil
}

// hourBucket maps an hour to its time-of-day bucket. Out-of-range hours
// fall into night.
func hourBucket(hour int) string {
	switch {
	case hour >= 5 && hour <= 11:
		return bucketMorning
	case hour >= 12 && hour <= 17:
		return bucketAfternoon
	case hour >= 18 && hour <= 22:
		return bucketEvening
	default:
		return bucketNight
	}
}
