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

func eveningInteraction(userID, gameID string, genres ...string) recommend.Interaction {
	ts := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	return recommend.Interaction{
		UserID:     userID,
		GameID:     gameID,
		Action:     recommend.ActionLike,
		Timestamp:  ts,
		GameGenres: genres,
	}
}

func TestContextualScoresBucketGenres(t *testing.T) {
	s := NewContextualSignal()
	interactions := []recommend.Interaction{
		eveningInteraction("u1", "g1", "horror"),
		eveningInteraction("u2", "g1", "horror"),
		eveningInteraction("u3", "g2", "puzzle"),
	}
	games := []recommend.Game{
		{ID: "c1", Genres: []string{"Horror"}},
		{ID: "c2", Genres: []string{"Puzzle"}},
		{ID: "c3", Genres: []string{"Racing"}},
	}

	if err := s.Train(context.Background(), interactions, games); err != nil {
		t.Fatalf("train: %v", err)
	}

	scores, err := s.Score(context.Background(), recommend.ScoreRequest{
		UserID:     "u9",
		Candidates: []string{"c1", "c2", "c3"},
		Context:    &recommend.RequestContext{TimeOfDay: 21},
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if scores["c1"] <= scores["c2"] {
		t.Errorf("horror (%v) should outrank puzzle (%v) in the evening", scores["c1"], scores["c2"])
	}
	if _, ok := scores["c3"]; ok {
		t.Error("racing has no evening mass, should be unscored")
	}
}

func TestContextualNilContext(t *testing.T) {
	s := NewContextualSignal()
	if err := s.Train(context.Background(), []recommend.Interaction{eveningInteraction("u1", "g1", "horror")}, nil); err != nil {
		t.Fatal(err)
	}

	scores, err := s.Score(context.Background(), recommend.ScoreRequest{
		UserID:     "u1",
		Candidates: []string{"g1"},
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("nil context should score nothing, got %v", scores)
	}
}

func TestContextualBucketsDisjoint(t *testing.T) {
	s := NewContextualSignal()
	interactions := []recommend.Interaction{eveningInteraction("u1", "g1", "horror")}
	games := []recommend.Game{{ID: "c1", Genres: []string{"Horror"}}}
	if err := s.Train(context.Background(), interactions, games); err != nil {
		t.Fatal(err)
	}

	scores, err := s.Score(context.Background(), recommend.ScoreRequest{
		UserID:     "u1",
		Candidates: []string{"c1"},
		Context:    &recommend.RequestContext{TimeOfDay: 8},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Errorf("morning request should not see evening mass, got %v", scores)
	}
}

func TestHourBucket(t *testing.T) {
	cases := map[int]string{
		5: "morning", 11: "morning",
		12: "afternoon", 17: "afternoon",
		18: "evening", 22: "evening",
		23: "night", 0: "night", 4: "night",
		-1: "night", 99: "night",
	}
	for hour, want := range cases {
		if got := hourBucket(hour); got != want {
			t.Errorf("hourBucket(%d) = %s, want %s", hour, got, want)
		}
	}
}
