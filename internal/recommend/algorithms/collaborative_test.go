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

func likeEvent(userID, gameID string, action recommend.ActionKind) recommend.Interaction {
	return recommend.Interaction{
		UserID:    userID,
		GameID:    gameID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func TestCollaborativeScoresFromNeighbors(t *testing.T) {
	// u1 and u2 share taste; u2 also liked g3, which u1 hasn't seen.
	interactions := []recommend.Interaction{
		likeEvent("u1", "g1", recommend.ActionLike),
		likeEvent("u1", "g2", recommend.ActionSuperLike),
		likeEvent("u2", "g1", recommend.ActionLike),
		likeEvent("u2", "g2", recommend.ActionSuperLike),
		likeEvent("u2", "g3", recommend.ActionLike),
		likeEvent("u3", "g4", recommend.ActionLike),
	}

	sig := NewCollaborativeSignal(10)
	if err := sig.Train(context.Background(), interactions, nil); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if !sig.IsTrained() {
		t.Fatal("not trained")
	}

	scores, err := sig.Score(context.Background(), recommend.ScoreRequest{
		UserID:     "u1",
		Candidates: []string{"g3", "g4"},
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if _, ok := scores["g3"]; !ok {
		t.Fatal("g3 not scored despite neighbor evidence")
	}
	if g4, ok := scores["g4"]; ok && g4 >= scores["g3"] {
		t.Errorf("g4 (%v) >= g3 (%v), want neighbor-backed g3 on top", g4, scores["g3"])
	}
}

func TestCollaborativeColdStartEmpty(t *testing.T) {
	interactions := []recommend.Interaction{
		likeEvent("u2", "g1", recommend.ActionLike),
	}

	sig := NewCollaborativeSignal(10)
	if err := sig.Train(context.Background(), interactions, nil); err != nil {
		t.Fatalf("Train: %v", err)
	}

	scores, err := sig.Score(context.Background(), recommend.ScoreRequest{
		UserID:     "unknown",
		Candidates: []string{"g1"},
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("cold-start scores = %v, want empty map", scores)
	}
}

func TestCollaborativeUntrained(t *testing.T) {
	sig := NewCollaborativeSignal(10)
	if _, err := sig.Score(context.Background(), recommend.ScoreRequest{UserID: "u1"}); err == nil {
		t.Fatal("expected error from untrained signal")
	}
}

func TestCollaborativeSkipsZeroWeightActions(t *testing.T) {
	interactions := []recommend.Interaction{
		likeEvent("u1", "g1", recommend.ActionSkip),
	}

	sig := NewCollaborativeSignal(10)
	if err := sig.Train(context.Background(), interactions, nil); err != nil {
		t.Fatalf("Train: %v", err)
	}

	scores, err := sig.Score(context.Background(), recommend.ScoreRequest{
		UserID:     "u1",
		Candidates: []string{"g1"},
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("skip-only user scored %v, want empty map", scores)
	}
}
