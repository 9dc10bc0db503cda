// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package features

import (
	"testing"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

func TestBuildGameVector(t *testing.T) {
	g := recommend.Game{
		ID:          "g1",
		Genres:      []string{"Roguelike"},
		Tags:        []string{"Pixel Art"},
		Description: "procedural dungeons with permadeath runs",
	}

	v := BuildGameVector(&g)

	if v.Features["g:roguelike"] != genreFeatureWeight {
		t.Errorf("genre feature = %v, want %v", v.Features["g:roguelike"], genreFeatureWeight)
	}
	if v.Features["t:pixel art"] != tagFeatureWeight {
		t.Errorf("tag feature = %v, want %v", v.Features["t:pixel art"], tagFeatureWeight)
	}
	if !v.HasGenre("ROGUELIKE") {
		t.Error("HasGenre not case-insensitive")
	}

	if len(v.Terms) != TermVectorDim {
		t.Fatalf("term vector dim = %d, want %d", len(v.Terms), TermVectorDim)
	}
	var mass float64
	for _, w := range v.Terms {
		mass += w
	}
	if mass == 0 {
		t.Error("description produced an empty term vector")
	}
}

func TestBuildGameVectorNoDescription(t *testing.T) {
	v := BuildGameVector(&recommend.Game{ID: "g1", Genres: []string{"puzzle"}})

	if len(v.Terms) != TermVectorDim {
		t.Fatalf("term vector dim = %d, want %d", len(v.Terms), TermVectorDim)
	}
	for i, w := range v.Terms {
		if w != 0 {
			t.Fatalf("empty description set term bin %d to %v", i, w)
		}
	}
}

func TestBuildGameVectorsStableTerms(t *testing.T) {
	g := recommend.Game{ID: "g1", Genres: []string{"puzzle"}, Description: "relaxing ambient puzzles"}

	a := BuildGameVector(&g)
	b := BuildGameVector(&g)
	for i := range a.Terms {
		if a.Terms[i] != b.Terms[i] {
			t.Fatalf("term hashing not deterministic at bin %d", i)
		}
	}
}
