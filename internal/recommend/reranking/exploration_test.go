// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package reranking

import (
	"context"
	"fmt"
	"testing"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

func explorationPool() []recommend.ScoredGame {
	// Head genres: puzzle. Tail offers racing and farming discoveries.
	var games []recommend.ScoredGame
	for i := 0; i < 10; i++ {
		games = append(games, scoredGame(fmt.Sprintf("head%02d", i), "puzzle", 1.0-float64(i)*0.01))
	}
	for i := 0; i < 5; i++ {
		games = append(games, scoredGame(fmt.Sprintf("tailr%02d", i), "racing", 0.5-float64(i)*0.01))
	}
	for i := 0; i < 5; i++ {
		games = append(games, scoredGame(fmt.Sprintf("tailf%02d", i), "farming", 0.4-float64(i)*0.01))
	}
	return games
}

func TestExplorationFillsTailSlots(t *testing.T) {
	rr := NewExplorationReranker(0.2)
	out := rr.Rerank(context.Background(), explorationPool(), 10)

	window := out[:10]
	var explored int
	for _, g := range window {
		if g.Explored {
			explored++
			if genre := g.Game.PrimaryGenre(); genre == "puzzle" {
				t.Errorf("explored pick %s shares head genre", g.Game.ID)
			}
		}
	}
	// 20% of 10 slots.
	if explored != 2 {
		t.Errorf("explored slots = %d, want 2", explored)
	}

	// Exploration picks occupy the bottom of the window.
	for i := 0; i < 8; i++ {
		if window[i].Explored {
			t.Errorf("explored pick at position %d, want tail only", i)
		}
	}

	// No duplicates across the whole list.
	seen := map[string]bool{}
	for _, g := range out {
		if seen[g.Game.ID] {
			t.Fatalf("duplicate game %s", g.Game.ID)
		}
		seen[g.Game.ID] = true
	}
}

func TestExplorationVariesAcrossRuns(t *testing.T) {
	rr := NewExplorationReranker(0.2)

	picks := map[string]bool{}
	for run := 0; run < 50; run++ {
		out := rr.Rerank(context.Background(), explorationPool(), 10)
		for _, g := range out[:10] {
			if g.Explored {
				picks[g.Game.ID] = true
			}
		}
	}

	// With 10 eligible discoveries and 50 runs of 2 picks, a determin-
	// istic sampler would show exactly 2 distinct IDs.
	if len(picks) <= 2 {
		t.Errorf("distinct exploration picks = %d, want sampling variety", len(picks))
	}
}

func TestExplorationPoolSmallerThanWindow(t *testing.T) {
	games := []recommend.ScoredGame{
		scoredGame("g1", "puzzle", 1.0),
		scoredGame("g2", "racing", 0.9),
	}

	rr := NewExplorationReranker(0.2)
	out := rr.Rerank(context.Background(), games, 10)

	if len(out) != 2 {
		t.Fatalf("got %d games, want 2 unchanged", len(out))
	}
	for _, g := range out {
		if g.Explored {
			t.Error("explored flag set with no games beyond the window")
		}
	}
}

func TestExplorationNoFreshGenres(t *testing.T) {
	var games []recommend.ScoredGame
	for i := 0; i < 15; i++ {
		games = append(games, scoredGame(fmt.Sprintf("g%02d", i), "puzzle", 1.0-float64(i)*0.01))
	}

	rr := NewExplorationReranker(0.2)
	out := rr.Rerank(context.Background(), games, 10)

	for i, g := range out {
		if g.Game.ID != games[i].Game.ID {
			t.Fatal("list changed despite no fresh genres past the window")
		}
	}
}

func TestExplorationZeroFraction(t *testing.T) {
	rr := NewExplorationReranker(0)
	games := explorationPool()
	out := rr.Rerank(context.Background(), games, 10)

	for i := range out {
		if out[i].Game.ID != games[i].Game.ID {
			t.Fatal("list changed with zero exploration fraction")
		}
	}
}
