// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package reranking

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// ExplorationReranker swaps a fraction of the bottom of the served window
// for randomly sampled lower-ranked games whose primary genre does not
// already appear in the kept head. Sampling is intentionally random, so
// two otherwise identical requests can surface different discoveries.
type ExplorationReranker struct {
	fraction float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewExplorationReranker creates an exploration reranker. The fraction is
// clamped to [0, 0.5].
func NewExplorationReranker(fraction float64) *ExplorationReranker {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 0.5 {
		fraction = 0.5
	}
	return &ExplorationReranker{
		fraction: fraction,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name returns the reranker name.
func (r *ExplorationReranker) Name() string {
	return "exploration"
}

// Rerank replaces the tail of the top-k window with exploration picks
// drawn from beyond it. When the pool has no games past the window, or no
// fresh genres to offer, the list is returned unchanged.
func (r *ExplorationReranker) Rerank(_ context.Context, games []recommend.ScoredGame, k int) []recommend.ScoredGame {
	if r.fraction == 0 || k <= 0 || len(games) <= k {
		return games
	}

	slots := int(float64(k) * r.fraction)
	if slots == 0 {
		return games
	}

	headEnd := k - slots
	headGenres := make(map[string]struct{}, headEnd)
	for _, g := range games[:headEnd] {
		headGenres[strings.ToLower(g.Game.PrimaryGenre())] = struct{}{}
	}

	// Candidates: games past the window whose primary genre the head
	// does not already show.
	pool := make([]recommend.ScoredGame, 0, len(games)-k)
	for _, g := range games[k:] {
		if _, seen := headGenres[strings.ToLower(g.Game.PrimaryGenre())]; !seen {
			pool = append(pool, g)
		}
	}
	if len(pool) == 0 {
		return games
	}

	r.mu.Lock()
	r.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	r.mu.Unlock()

	if slots > len(pool) {
		slots = len(pool)
	}

	picked := make(map[string]struct{}, slots)
	out := make([]recommend.ScoredGame, 0, len(games))
	out = append(out, games[:k-slots]...)
	for _, g := range pool[:slots] {
		g.Explored = true
		picked[g.Game.ID] = struct{}{}
		out = append(out, g)
	}
	// Displaced window games stay available past the cut.
	out = append(out, games[k-slots:k]...)
	for _, g := range games[k:] {
		if _, dup := picked[g.Game.ID]; !dup {
			out = append(out, g)
		}
	}

	return out
}
