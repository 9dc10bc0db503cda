// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package reranking post-processes ranked lists: genre diversity caps,
// tail exploration and maximal marginal relevance.
package reranking

import (
	"context"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// DiversityReranker enforces a cap on consecutive games sharing a primary
// genre. A game that would exceed the cap is deferred to the earliest
// later slot where it fits; relative order is otherwise preserved.
type DiversityReranker struct {
	maxConsecutive int
}

// NewDiversityReranker creates a diversity reranker. Caps below 1 are
// clamped to 1.
func NewDiversityReranker(maxConsecutive int) *DiversityReranker {
	if maxConsecutive < 1 {
		maxConsecutive = 1
	}
	return &DiversityReranker{maxConsecutive: maxConsecutive}
}

// Name returns the reranker name.
func (r *DiversityReranker) Name() string {
	return "diversity"
}

// Rerank breaks up runs of the same primary genre longer than the cap.
func (r *DiversityReranker) Rerank(_ context.Context, games []recommend.ScoredGame, _ int) []recommend.ScoredGame {
	if len(games) <= r.maxConsecutive {
		return games
	}

	out := make([]recommend.ScoredGame, 0, len(games))
	deferred := make([]recommend.ScoredGame, 0)

	runGenre := ""
	runLen := 0

	place := func(g recommend.ScoredGame) bool {
		genre := g.Game.PrimaryGenre()
		if genre == runGenre && runLen >= r.maxConsecutive {
			return false
		}
		if genre == runGenre {
			runLen++
		} else {
			runGenre = genre
			runLen = 1
		}
		out = append(out, g)
		return true
	}

	for _, g := range games {
		// A deferred game gets first chance at every slot it fits.
		for len(deferred) > 0 {
			if !place(deferred[0]) {
				break
			}
			deferred = deferred[1:]
		}
		if !place(g) {
			deferred = append(deferred, g)
		}
	}

	// Whatever still cannot fit goes at the end; the cap yields to
	// completeness when only one genre remains.
	out = append(out, deferred...)
	return out
}
