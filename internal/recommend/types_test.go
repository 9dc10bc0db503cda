// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package recommend

import "testing"

func TestParseActionKindRoundTrip(t *testing.T) {
	kinds := []ActionKind{
		ActionSuperLike, ActionWishlist, ActionLike, ActionViewDetails,
		ActionLongView, ActionSkip, ActionDislike,
	}
	for _, k := range kinds {
		parsed, ok := ParseActionKind(k.String())
		if !ok {
			t.Errorf("ParseActionKind(%q) not ok", k.String())
		}
		if parsed != k {
			t.Errorf("ParseActionKind(%q) = %v, want %v", k.String(), parsed, k)
		}
	}

	if _, ok := ParseActionKind("purchase"); ok {
		t.Error("unknown action should not parse")
	}
}

func TestActionWeightOrdering(t *testing.T) {
	if ActionSuperLike.Weight() <= ActionWishlist.Weight() {
		t.Error("super_like should outweigh wishlist_add")
	}
	if ActionWishlist.Weight() <= ActionLike.Weight() {
		t.Error("wishlist_add should outweigh like")
	}
	if ActionSkip.Weight() != 0 {
		t.Errorf("skip weight = %v, want 0", ActionSkip.Weight())
	}
	if ActionDislike.Weight() >= 0 {
		t.Errorf("dislike weight = %v, want negative", ActionDislike.Weight())
	}
}

func TestQualifyingActions(t *testing.T) {
	qualifying := []ActionKind{ActionSuperLike, ActionWishlist, ActionLike, ActionDislike}
	for _, k := range qualifying {
		if !k.Qualifying() {
			t.Errorf("%v should be qualifying", k)
		}
	}

	passive := []ActionKind{ActionSkip, ActionLongView, ActionViewDetails}
	for _, k := range passive {
		if k.Qualifying() {
			t.Errorf("%v should not be qualifying", k)
		}
	}
}

func TestPrimaryGenre(t *testing.T) {
	g := Game{ID: "g1", Genres: []string{"roguelike", "deckbuilder"}}
	if got := g.PrimaryGenre(); got != "roguelike" {
		t.Errorf("PrimaryGenre = %q, want roguelike", got)
	}
	if got := (Game{ID: "g2"}).PrimaryGenre(); got != "" {
		t.Errorf("PrimaryGenre = %q, want empty", got)
	}
}
