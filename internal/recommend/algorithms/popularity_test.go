// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package algorithms

import (
	"context"
	"testing"
	"time"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

func TestPopularityRanksByVolume(t *testing.T) {
	now := time.Now()
	s := NewPopularitySignal()

	var interactions []recommend.Interaction
	for _, u := range []string{"u1", "u2", "u3"} {
		interactions = append(interactions, recommend.Interaction{
			UserID: u, GameID: "hit", Action: recommend.ActionLike, Timestamp: now,
		})
	}
	interactions = append(interactions,
		recommend.Interaction{UserID: "u1", GameID: "niche", Action: recommend.ActionLike, Timestamp: now},
		recommend.Interaction{UserID: "u2", GameID: "hated", Action: recommend.ActionDislike, Timestamp: now},
	)

	if err := s.Train(context.Background(), interactions, nil); err != nil {
		t.Fatalf("train: %v", err)
	}

	scores, err := s.Score(context.Background(), recommend.ScoreRequest{
		Candidates: []string{"hit", "niche", "hated", "unseen"},
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if scores["hit"] <= scores["niche"] {
		t.Errorf("hit (%v) should outrank niche (%v)", scores["hit"], scores["niche"])
	}
	if _, ok := scores["hated"]; ok {
		t.Error("dislike-only game should carry no popularity mass")
	}
	if _, ok := scores["unseen"]; ok {
		t.Error("unseen game should be unscored")
	}
}

func TestPopularityRecencyDecay(t *testing.T) {
	now := time.Now()
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	s := NewPopularitySignal()
	interactions := []recommend.Interaction{
		{UserID: "u1", GameID: "fresh", Action: recommend.ActionLike, Timestamp: now},
		{UserID: "u2", GameID: "stale", Action: recommend.ActionLike, Timestamp: now.Add(-4 * popularityHalfLife)},
	}
	if err := s.Train(context.Background(), interactions, nil); err != nil {
		t.Fatal(err)
	}

	scores, err := s.Score(context.Background(), recommend.ScoreRequest{Candidates: []string{"fresh", "stale"}})
	if err != nil {
		t.Fatal(err)
	}
	if scores["fresh"] <= scores["stale"] {
		t.Errorf("fresh (%v) should outrank stale (%v)", scores["fresh"], scores["stale"])
	}
}

func TestPopularityUntrained(t *testing.T) {
	s := NewPopularitySignal()
	if _, err := s.Score(context.Background(), recommend.ScoreRequest{Candidates: []string{"g1"}}); err == nil {
		t.Error("untrained signal should error")
	}
}
