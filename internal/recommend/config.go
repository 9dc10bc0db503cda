// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the relative contribution of each signal.
	// Weights are normalized at runtime, so they don't need to sum to 1.0.
	Weights SignalWeights `json:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Diversity contains parameters for the diversity/exploration pass.
	Diversity DiversityConfig `json:"diversity"`

	// Training contains training parameters.
	Training TrainingConfig `json:"training"`
}

// SignalWeights defines the relative contribution of each scoring signal.
// The reference blend is 0.40/0.30/0.20/0.10; treat exact values as
// tunable configuration.
type SignalWeights struct {
	// Collaborative is the weight for the collaborative signal.
	Collaborative float64 `json:"collaborative"`

	// Content is the weight for the content signal.
	Content float64 `json:"content"`

	// Contextual is the weight for the contextual signal.
	Contextual float64 `json:"contextual"`

	// Popularity is the weight for the popularity signal.
	Popularity float64 `json:"popularity"`
}

// Normalize returns a copy with weights normalized to sum to 1.0.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w SignalWeights) Normalize() SignalWeights {
	sum := w.Collaborative + w.Content + w.Contextual + w.Popularity
	if sum == 0 {
		const equalWeight = 0.25
		return SignalWeights{
			Collaborative: equalWeight,
			Content:       equalWeight,
			Contextual:    equalWeight,
			Popularity:    equalWeight,
		}
	}

	return SignalWeights{
		Collaborative: w.Collaborative / sum,
		Content:       w.Content / sum,
		Contextual:    w.Contextual / sum,
		Popularity:    w.Popularity / sum,
	}
}

// ToMap returns the weights as a signal-name-keyed map.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w SignalWeights) ToMap() map[string]float64 {
	return map[string]float64{
		SignalCollaborative: w.Collaborative,
		SignalContent:       w.Content,
		SignalContextual:    w.Contextual,
		SignalPopularity:    w.Popularity,
	}
}

// Canonical signal names.
const (
	SignalCollaborative = "collaborative"
	SignalContent       = "content"
	SignalContextual    = "contextual"
	SignalPopularity    = "popularity"
)

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is the ranked list size when the request doesn't
	// specify one.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the ranked list size.
	MaxLimit int `json:"max_limit"`

	// MaxCandidates bounds the candidate pool fetched per generation.
	MaxCandidates int `json:"max_candidates"`

	// ScoreTimeout bounds each signal's scoring call.
	ScoreTimeout time.Duration `json:"score_timeout"`
}

// DiversityConfig contains parameters for the diversity/exploration pass.
type DiversityConfig struct {
	// MaxConsecutive caps runs of entries sharing a primary genre.
	MaxConsecutive int `json:"max_consecutive"`

	// ExploreFraction is the share of tail entries replaced with games
	// sampled from genres absent from the head.
	ExploreFraction float64 `json:"explore_fraction"`
}

// TrainingConfig contains training parameters.
type TrainingConfig struct {
	// Lookback bounds how far back interactions feed training.
	Lookback time.Duration `json:"lookback"`

	// MinInteractions is the minimum training set size; below it
	// training is skipped and previously trained models stay active.
	MinInteractions int `json:"min_interactions"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: SignalWeights{
			Collaborative: 0.40,
			Content:       0.30,
			Contextual:    0.20,
			Popularity:    0.10,
		},
		Limits: LimitsConfig{
			DefaultLimit:  20,
			MaxLimit:      100,
			MaxCandidates: 2000,
			ScoreTimeout:  5 * time.Second,
		},
		Diversity: DiversityConfig{
			MaxConsecutive:  3,
			ExploreFraction: 0.20,
		},
		Training: TrainingConfig{
			Lookback:        90 * 24 * time.Hour,
			MinInteractions: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	w := c.Weights
	if w.Collaborative < 0 || w.Content < 0 || w.Contextual < 0 || w.Popularity < 0 {
		return fmt.Errorf("weights must be non-negative")
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be >= 1, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit (%d) must be >= default_limit (%d)",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be >= 1, got %d", c.Limits.MaxCandidates)
	}

	if c.Diversity.MaxConsecutive < 1 {
		return fmt.Errorf("diversity.max_consecutive must be >= 1, got %d", c.Diversity.MaxConsecutive)
	}
	if c.Diversity.ExploreFraction < 0 || c.Diversity.ExploreFraction > 1 {
		return fmt.Errorf("diversity.explore_fraction must be in [0, 1], got %v", c.Diversity.ExploreFraction)
	}

	if c.Training.MinInteractions < 0 {
		return fmt.Errorf("training.min_interactions must be >= 0, got %d", c.Training.MinInteractions)
	}

	return nil
}
