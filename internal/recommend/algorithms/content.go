// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/indiedeck/indiedeck/internal/recommend"
	"github.com/indiedeck/indiedeck/internal/recommend/features"
)

// Blend weights for item-item similarity: weighted Jaccard over the
// categorical genre/tag features plus a cosine term over the hashed
// description vectors.
const (
	categoricalSimWeight = 0.7
	termSimWeight        = 0.3
)

// OnboardingLookup resolves a user's onboarding genre selections. Used for
// cold-start scoring when a user has no interaction history.
type OnboardingLookup func(ctx context.Context, userID string) ([]string, error)

// ContentSignal scores candidates by cosine similarity between the user's
// taste profile and each game's content vector. Users without history fall
// back to a synthetic profile built from their onboarding genres, so
// genre-matching games surface first for brand-new users.
type ContentSignal struct {
	BaseSignal

	onboarding OnboardingLookup

	profiles    map[string]*features.UserProfile
	gameVectors map[string]*features.GameVector
}

// NewContentSignal creates a content-based signal. The lookup may be nil,
// in which case cold-start users score nothing.
func NewContentSignal(onboarding OnboardingLookup) *ContentSignal {
	return &ContentSignal{onboarding: onboarding}
}

// Name returns the signal name.
func (s *ContentSignal) Name() string {
	return recommend.SignalContent
}

// Train builds user taste profiles and game content vectors.
func (s *ContentSignal) Train(ctx context.Context, interactions []recommend.Interaction, games []recommend.Game) error {
	if contextCancelled(ctx) {
		return ctx.Err()
	}

	vectors := features.BuildGameVectors(games)

	gameByID := make(map[string]recommend.Game, len(games))
	for i := range games {
		gameByID[games[i].ID] = games[i]
	}

	builder := features.NewProfileBuilder(timeNow())
	profiles := builder.Build(interactions)
	builder.BuildPriceAffinity(profiles, interactions, gameByID)

	s.TrainLock()
	s.profiles = profiles
	s.gameVectors = vectors
	s.MarkTrained()
	s.TrainUnlock()

	return nil
}

// Score rates the candidates against the user's profile.
func (s *ContentSignal) Score(ctx context.Context, req recommend.ScoreRequest) (map[string]float64, error) {
	s.ScoreLock()
	if !s.trained {
		s.ScoreUnlock()
		return nil, fmt.Errorf("%s: not trained", s.Name())
	}
	profile := s.profiles[req.UserID]
	s.ScoreUnlock()

	if profile == nil {
		var err error
		profile, err = s.coldStartProfile(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return map[string]float64{}, nil
		}
	}

	return s.scoreAgainstProfile(ctx, profile, req.Candidates)
}

func (s *ContentSignal) scoreAgainstProfile(ctx context.Context, profile *features.UserProfile, candidates []string) (map[string]float64, error) {
	query := features.ProfileVector(profile)
	if len(query) == 0 {
		return map[string]float64{}, nil
	}

	s.ScoreLock()
	defer s.ScoreUnlock()

	scores := make(map[string]float64, len(candidates))
	for _, gameID := range candidates {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		vec, ok := s.gameVectors[gameID]
		if !ok {
			continue
		}
		sim := CosineSparse(query, vec.Features)
		if sim != 0 {
			scores[gameID] = sim
		}
	}

	if len(scores) == 0 {
		return map[string]float64{}, nil
	}
	return normalizeScores(scores), nil
}

// coldStartProfile builds a synthetic profile from onboarding genres.
// Returns nil when the user made no selections.
func (s *ContentSignal) coldStartProfile(ctx context.Context, userID string) (*features.UserProfile, error) {
	if s.onboarding == nil {
		return nil, nil
	}

	genres, err := s.onboarding(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("onboarding genres: %w", err)
	}
	if len(genres) == 0 {
		return nil, nil
	}

	return features.ColdStartProfile(userID, genres), nil
}

// SimilarGames returns the K games most similar in content to the given
// game, ranked by the blended categorical/term metric with ascending-ID
// tie breaks. An unknown game or empty catalog yields an empty slice.
// Mismatched term vector dimensions surface as a DataIntegrityError.
func (s *ContentSignal) SimilarGames(gameID string, k int) ([]Neighbor, error) {
	if k < 1 {
		k = 1
	}

	s.ScoreLock()
	defer s.ScoreUnlock()

	query, ok := s.gameVectors[gameID]
	if !ok {
		return []Neighbor{}, nil
	}

	neighbors := make([]Neighbor, 0, len(s.gameVectors))
	for id, v := range s.gameVectors {
		if id == gameID {
			continue
		}
		sim, err := gameSimilarity(query, v)
		if err != nil {
			return nil, err
		}
		if sim <= 0 {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: id, Similarity: sim})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// gameSimilarity blends weighted Jaccard over genre/tag features with a
// cosine over the hashed description-term vectors.
func gameSimilarity(a, b *features.GameVector) (float64, error) {
	termSim, err := CosineDense(a.Terms, b.Terms)
	if err != nil {
		return 0, err
	}
	catSim := WeightedJaccard(a.Features, b.Features)
	return categoricalSimWeight*catSim + termSimWeight*termSim, nil
}
