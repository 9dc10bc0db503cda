// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package algorithms

import (
	"context"
	"fmt"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// CollaborativeSignal implements user-based collaborative filtering.
// A candidate's score is the similarity-weighted mean of the ratings its
// nearest neighbors gave it. Users absent from the training set score
// nothing; the engine redistributes the weight.
type CollaborativeSignal struct {
	BaseSignal

	k int

	// userVectors maps user ID to gameID -> signed rating.
	userVectors map[string]map[string]float64
}

// NewCollaborativeSignal creates a user-based CF signal with the given
// neighborhood size.
func NewCollaborativeSignal(k int) *CollaborativeSignal {
	if k < 1 {
		k = 1
	}
	return &CollaborativeSignal{k: k}
}

// Name returns the signal name.
func (s *CollaborativeSignal) Name() string {
	return recommend.SignalCollaborative
}

// Train builds the user-game rating matrix from interactions. Ratings
// accumulate per user-game pair so repeat exposure strengthens the entry.
func (s *CollaborativeSignal) Train(ctx context.Context, interactions []recommend.Interaction, _ []recommend.Game) error {
	vectors := make(map[string]map[string]float64)

	for i := range interactions {
		if contextCancelled(ctx) {
			return ctx.Err()
		}

		in := &interactions[i]
		w := in.Action.Weight()
		if w == 0 {
			continue
		}

		v := vectors[in.UserID]
		if v == nil {
			v = make(map[string]float64)
			vectors[in.UserID] = v
		}
		v[in.GameID] += w
	}

	s.TrainLock()
	s.userVectors = vectors
	s.MarkTrained()
	s.TrainUnlock()

	return nil
}

// Score rates the candidates for one user. Returns an empty map when the
// user has no rating vector or no positive-similarity neighbors.
func (s *CollaborativeSignal) Score(ctx context.Context, req recommend.ScoreRequest) (map[string]float64, error) {
	s.ScoreLock()
	defer s.ScoreUnlock()

	if !s.trained {
		return nil, fmt.Errorf("%s: not trained", s.Name())
	}
	if contextCancelled(ctx) {
		return nil, ctx.Err()
	}

	query, ok := s.userVectors[req.UserID]
	if !ok || len(query) == 0 {
		return map[string]float64{}, nil
	}

	neighbors := TopKSimilar(req.UserID, query, s.userVectors, s.k)
	if len(neighbors) == 0 {
		return map[string]float64{}, nil
	}

	scores := make(map[string]float64, len(req.Candidates))
	for _, gameID := range req.Candidates {
		var weighted, simSum float64
		for _, n := range neighbors {
			rating, rated := s.userVectors[n.ID][gameID]
			if !rated {
				continue
			}
			weighted += n.Similarity * rating
			simSum += n.Similarity
		}
		if simSum > 0 {
			scores[gameID] = weighted / simSum
		}
	}

	if len(scores) == 0 {
		return map[string]float64{}, nil
	}
	return normalizeScores(scores), nil
}

// SimilarUsers exposes the trained neighborhood for a user. Used by
// diagnostics endpoints and item discovery.
func (s *CollaborativeSignal) SimilarUsers(userID string, k int) []Neighbor {
	s.ScoreLock()
	defer s.ScoreUnlock()

	query, ok := s.userVectors[userID]
	if !ok {
		return []Neighbor{}
	}
	return TopKSimilar(userID, query, s.userVectors, k)
}
