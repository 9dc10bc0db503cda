// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package features

import (
	"math"
	"testing"
	"time"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

func TestBuildAggregatesSignedWeights(t *testing.T) {
	now := time.Now()
	b := NewProfileBuilder(now)

	profiles := b.Build([]recommend.Interaction{
		{UserID: "u1", GameID: "g1", Action: recommend.ActionLike, Timestamp: now, GameGenres: []string{"Puzzle"}},
		{UserID: "u1", GameID: "g2", Action: recommend.ActionDislike, Timestamp: now, GameGenres: []string{"racing"}},
		{UserID: "u1", GameID: "g3", Action: recommend.ActionSkip, Timestamp: now, GameGenres: []string{"horror"}},
	})

	p := profiles["u1"]
	if p == nil {
		t.Fatal("missing profile for u1")
	}
	if p.Genres["puzzle"] != recommend.ActionLike.Weight() {
		t.Errorf("puzzle weight = %v", p.Genres["puzzle"])
	}
	if p.Genres["racing"] >= 0 {
		t.Errorf("racing weight = %v, want negative", p.Genres["racing"])
	}
	if _, ok := p.Genres["horror"]; ok {
		t.Error("zero-weight skip should not contribute")
	}
	if p.InteractionCount != 2 {
		t.Errorf("interaction count = %d, want 2", p.InteractionCount)
	}
}

func TestBuildRecencyDecay(t *testing.T) {
	now := time.Now()
	b := NewProfileBuilder(now)

	profiles := b.Build([]recommend.Interaction{
		{UserID: "u1", GameID: "g1", Action: recommend.ActionLike, Timestamp: now, GameGenres: []string{"puzzle"}},
		{UserID: "u2", GameID: "g1", Action: recommend.ActionLike, Timestamp: now.Add(-HalfLife), GameGenres: []string{"puzzle"}},
	})

	fresh := profiles["u1"].Genres["puzzle"]
	aged := profiles["u2"].Genres["puzzle"]
	if math.Abs(aged-fresh/2) > 1e-9 {
		t.Errorf("half-life-old weight = %v, want %v", aged, fresh/2)
	}
}

func TestBuildPriceAffinity(t *testing.T) {
	now := time.Now()
	b := NewProfileBuilder(now)

	interactions := []recommend.Interaction{
		{UserID: "u1", GameID: "g1", Action: recommend.ActionLike, Timestamp: now, GameGenres: []string{"puzzle"}},
		{UserID: "u1", GameID: "g2", Action: recommend.ActionLike, Timestamp: now, GameGenres: []string{"puzzle"}},
		{UserID: "u1", GameID: "g3", Action: recommend.ActionDislike, Timestamp: now, GameGenres: []string{"puzzle"}},
	}
	games := map[string]recommend.Game{
		"g1": {ID: "g1", PriceCents: 1000},
		"g2": {ID: "g2", PriceCents: 2000},
		"g3": {ID: "g3", PriceCents: 9000},
	}

	profiles := b.Build(interactions)
	b.BuildPriceAffinity(profiles, interactions, games)

	// Equal positive weights, disliked price excluded.
	if got := profiles["u1"].PriceAffinity; math.Abs(got-1500) > 1e-9 {
		t.Errorf("price affinity = %v, want 1500", got)
	}
}

func TestColdStartProfile(t *testing.T) {
	p := ColdStartProfile("u9", []string{"Metroidvania", " roguelike "})
	if !p.ColdStart {
		t.Error("profile should be marked cold-start")
	}
	if p.Genres["metroidvania"] != 1.0 || p.Genres["roguelike"] != 1.0 {
		t.Errorf("genres = %v", p.Genres)
	}
}
