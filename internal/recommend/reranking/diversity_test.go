// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package reranking

import (
	"context"
	"testing"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

func scoredGame(id, genre string, score float64) recommend.ScoredGame {
	return recommend.ScoredGame{
		Game:  recommend.Game{ID: id, Genres: []string{genre}},
		Score: score,
	}
}

func genresOf(games []recommend.ScoredGame) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Game.PrimaryGenre()
	}
	return out
}

func maxRun(genres []string) int {
	best, run := 0, 0
	prev := ""
	for _, g := range genres {
		if g == prev {
			run++
		} else {
			prev = g
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func TestDiversityBreaksLongRuns(t *testing.T) {
	games := []recommend.ScoredGame{
		scoredGame("g1", "puzzle", 1.0),
		scoredGame("g2", "puzzle", 0.9),
		scoredGame("g3", "puzzle", 0.8),
		scoredGame("g4", "puzzle", 0.7),
		scoredGame("g5", "puzzle", 0.6),
		scoredGame("g6", "racing", 0.5),
		scoredGame("g7", "racing", 0.4),
		scoredGame("g8", "farming", 0.3),
	}

	out := NewDiversityReranker(3).Rerank(context.Background(), games, 8)

	if len(out) != len(games) {
		t.Fatalf("got %d games, want %d", len(out), len(games))
	}
	if got := maxRun(genresOf(out)); got > 3 {
		t.Errorf("max consecutive run = %d, want <= 3 (%v)", got, genresOf(out))
	}

	// No game lost, no game duplicated.
	seen := map[string]bool{}
	for _, g := range out {
		if seen[g.Game.ID] {
			t.Fatalf("duplicate game %s", g.Game.ID)
		}
		seen[g.Game.ID] = true
	}
}

func TestDiversityPreservesOrderWithinCap(t *testing.T) {
	games := []recommend.ScoredGame{
		scoredGame("g1", "puzzle", 1.0),
		scoredGame("g2", "racing", 0.9),
		scoredGame("g3", "puzzle", 0.8),
		scoredGame("g4", "farming", 0.7),
	}

	out := NewDiversityReranker(3).Rerank(context.Background(), games, 4)

	for i, g := range out {
		if g.Game.ID != games[i].Game.ID {
			t.Fatalf("order changed: %v", genresOf(out))
		}
	}
}

func TestDiversitySingleGenrePoolKeepsAll(t *testing.T) {
	games := []recommend.ScoredGame{
		scoredGame("g1", "puzzle", 1.0),
		scoredGame("g2", "puzzle", 0.9),
		scoredGame("g3", "puzzle", 0.8),
		scoredGame("g4", "puzzle", 0.7),
		scoredGame("g5", "puzzle", 0.6),
	}

	out := NewDiversityReranker(3).Rerank(context.Background(), games, 5)
	if len(out) != 5 {
		t.Fatalf("got %d games, want all 5 despite cap", len(out))
	}
}

func TestExplorationThenDiversityHoldsCap(t *testing.T) {
	// Exploration can inject several picks sharing one fresh genre into
	// the window tail. Running the genre cap afterwards must still bound
	// every run in the served window.
	var games []recommend.ScoredGame
	for i := 0; i < 16; i++ {
		games = append(games, scoredGame(
			string(rune('a'+i))+"head", "puzzle", 1.0-float64(i)*0.01))
	}
	for i := 0; i < 10; i++ {
		games = append(games, scoredGame(
			string(rune('a'+i))+"tail", "horror", 0.5-float64(i)*0.01))
	}

	explore := NewExplorationReranker(0.2)
	genreCap := NewDiversityReranker(3)

	for run := 0; run < 20; run++ {
		out := explore.Rerank(context.Background(), games, 20)
		out = genreCap.Rerank(context.Background(), out, 20)
		if len(out) > 20 {
			out = out[:20]
		}

		if got := maxRun(genresOf(out)); got > 3 {
			t.Fatalf("run %d: max consecutive run = %d, want <= 3 (%v)",
				run, got, genresOf(out))
		}
	}
}

func TestDiversitySmallPool(t *testing.T) {
	games := []recommend.ScoredGame{
		scoredGame("g1", "puzzle", 1.0),
		scoredGame("g2", "puzzle", 0.9),
	}

	out := NewDiversityReranker(3).Rerank(context.Background(), games, 10)
	if len(out) != 2 {
		t.Fatalf("got %d games, want 2", len(out))
	}
}
