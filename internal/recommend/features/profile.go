// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package features builds the derived representations the scoring signals
// consume: weighted user taste profiles and game content vectors.
package features

import (
	"math"
	"strings"
	"time"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// HalfLife controls the exponential recency decay applied to interaction
// weights when building profiles. An interaction this old counts half.
const HalfLife = 30 * 24 * time.Hour

// UserProfile is a user's taste representation, aggregated from their
// interaction history. Feature weights are signed: disliked genres pull
// the score down.
type UserProfile struct {
	UserID string

	// Genres and Tags map feature name to accumulated signed weight.
	Genres map[string]float64
	Tags   map[string]float64

	// PriceAffinity is the interaction-weighted mean price, in cents,
	// of positively rated games. Zero when unknown.
	PriceAffinity float64

	// InteractionCount is the number of events folded into the profile.
	InteractionCount int

	// ColdStart marks a profile backfilled from onboarding genres rather
	// than observed behaviour.
	ColdStart bool
}

// ProfileBuilder accumulates interactions into user profiles.
type ProfileBuilder struct {
	now time.Time
}

// NewProfileBuilder creates a builder anchored at the given time for
// recency decay. A zero time means time.Now.
func NewProfileBuilder(now time.Time) *ProfileBuilder {
	if now.IsZero() {
		now = time.Now()
	}
	return &ProfileBuilder{now: now}
}

// Build aggregates interactions into per-user profiles. Interactions with
// zero action weight (plain skips) contribute nothing.
func (b *ProfileBuilder) Build(interactions []recommend.Interaction) map[string]*UserProfile {
	profiles := make(map[string]*UserProfile)

	for i := range interactions {
		in := &interactions[i]
		w := in.Action.Weight()
		if w == 0 {
			continue
		}
		w *= b.decay(in.Timestamp)

		p := profiles[in.UserID]
		if p == nil {
			p = &UserProfile{
				UserID: in.UserID,
				Genres: make(map[string]float64),
				Tags:   make(map[string]float64),
			}
			profiles[in.UserID] = p
		}

		for _, g := range in.GameGenres {
			p.Genres[normalize(g)] += w
		}
		for _, t := range in.GameTags {
			p.Tags[normalize(t)] += w * tagWeight
		}
		p.InteractionCount++
	}

	return profiles
}

// tagWeight discounts tags against genres; tags are noisier.
const tagWeight = 0.5

// BuildPriceAffinity folds positively rated game prices into the profiles.
// Must be called after Build with the same interaction set.
func (b *ProfileBuilder) BuildPriceAffinity(profiles map[string]*UserProfile, interactions []recommend.Interaction, games map[string]recommend.Game) {
	type acc struct{ sum, weight float64 }
	sums := make(map[string]*acc)

	for i := range interactions {
		in := &interactions[i]
		w := in.Action.Weight()
		if w <= 0 {
			continue
		}
		g, ok := games[in.GameID]
		if !ok || g.PriceCents <= 0 {
			continue
		}
		a := sums[in.UserID]
		if a == nil {
			a = &acc{}
			sums[in.UserID] = a
		}
		a.sum += w * float64(g.PriceCents)
		a.weight += w
	}

	for userID, a := range sums {
		if p, ok := profiles[userID]; ok && a.weight > 0 {
			p.PriceAffinity = a.sum / a.weight
		}
	}
}

// ColdStartProfile builds a synthetic profile from onboarding genre
// selections for users with no usable history.
func ColdStartProfile(userID string, genres []string) *UserProfile {
	p := &UserProfile{
		UserID:    userID,
		Genres:    make(map[string]float64, len(genres)),
		Tags:      map[string]float64{},
		ColdStart: true,
	}
	for _, g := range genres {
		p.Genres[normalize(g)] = 1.0
	}
	return p
}

// decay returns the recency multiplier for an interaction timestamp.
func (b *ProfileBuilder) decay(ts time.Time) float64 {
	age := b.now.Sub(ts)
	if age <= 0 {
		return 1.0
	}
	return math.Exp2(-float64(age) / float64(HalfLife))
}

// normalize canonicalizes a feature name for matching.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
