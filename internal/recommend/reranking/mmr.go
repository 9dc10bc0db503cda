// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package reranking

import (
	"context"
	"strings"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// MMRReranker applies maximal marginal relevance: greedy selection that
// trades relevance against similarity to already-selected games, measured
// by genre overlap. Lambda 1.0 is pure relevance, 0.0 pure diversity.
type MMRReranker struct {
	lambda float64
}

// NewMMRReranker creates an MMR reranker with the given lambda, clamped
// to [0, 1].
func NewMMRReranker(lambda float64) *MMRReranker {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMRReranker{lambda: lambda}
}

// Name returns the reranker name.
func (r *MMRReranker) Name() string {
	return "mmr"
}

// Rerank greedily reorders the top of the list by MMR score. Only the
// first k positions are reordered; the tail keeps its order.
func (r *MMRReranker) Rerank(_ context.Context, games []recommend.ScoredGame, k int) []recommend.ScoredGame {
	if len(games) <= 1 || r.lambda >= 1 {
		return games
	}
	if k <= 0 || k > len(games) {
		k = len(games)
	}

	remaining := make([]recommend.ScoredGame, len(games))
	copy(remaining, games)

	selected := make([]recommend.ScoredGame, 0, k)
	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := -1.0

		for i, cand := range remaining {
			maxSim := 0.0
			for j := range selected {
				sim := genreSimilarity(&cand.Game, &selected[j].Game)
				if sim > maxSim {
					maxSim = sim
				}
			}
			mmr := r.lambda*cand.Score - (1-r.lambda)*maxSim
			if mmr > bestScore {
				bestScore = mmr
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return append(selected, remaining...)
}

// genreSimilarity is the Jaccard overlap of two games' genre sets.
func genreSimilarity(a, b *recommend.Game) float64 {
	if len(a.Genres) == 0 || len(b.Genres) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a.Genres))
	for _, g := range a.Genres {
		set[strings.ToLower(g)] = struct{}{}
	}

	var inter int
	union := len(set)
	for _, g := range b.Genres {
		if _, ok := set[strings.ToLower(g)]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
