// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/indiedeck/indiedeck/internal/config"
	"github.com/indiedeck/indiedeck/internal/recommend"
	"github.com/indiedeck/indiedeck/internal/recommend/algorithms"
	"github.com/indiedeck/indiedeck/internal/recommend/reranking"
	"github.com/indiedeck/indiedeck/internal/store"
)

// engineBundle is the assembled engine plus the signals the API exposes
// directly for similarity browsing.
type engineBundle struct {
	engine  *recommend.Engine
	content *algorithms.ContentSignal
	collab  *algorithms.CollaborativeSignal
}

// buildEngine assembles the engine with its four signals and the
// reranking pipeline. Reranker order matters: MMR reorders by relevance
// and redundancy first, exploration swaps in tail discoveries, and the
// genre cap runs last so its run-length guarantee holds on the final
// list.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildEngine(cfg *config.RecommendConfig, st *store.Store, logger zerolog.Logger) (*engineBundle, error) {
	engineCfg := recommend.DefaultConfig()
	engineCfg.Weights = recommend.SignalWeights{
		Collaborative: cfg.Weights.Collaborative,
		Content:       cfg.Weights.Content,
		Contextual:    cfg.Weights.Contextual,
		Popularity:    cfg.Weights.Popularity,
	}
	engineCfg.Limits.DefaultLimit = cfg.DefaultLimit
	engineCfg.Limits.MaxLimit = cfg.MaxLimit
	engineCfg.Limits.MaxCandidates = cfg.MaxCandidates
	engineCfg.Diversity.MaxConsecutive = cfg.MaxConsecutiveGenre
	engineCfg.Diversity.ExploreFraction = cfg.ExploreFraction
	engineCfg.Training.Lookback = cfg.TrainLookback

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	engine.SetDataProvider(st)

	collab := algorithms.NewCollaborativeSignal(cfg.NeighborK)
	content := algorithms.NewContentSignal(st.GetOnboardingGenres)

	engine.RegisterSignal(collab)
	engine.RegisterSignal(content)
	engine.RegisterSignal(algorithms.NewContextualSignal())
	engine.RegisterSignal(algorithms.NewPopularitySignal())

	if cfg.MMREnabled {
		engine.RegisterReranker(reranking.NewMMRReranker(cfg.MMRLambda))
	}
	engine.RegisterReranker(reranking.NewExplorationReranker(cfg.ExploreFraction))
	engine.RegisterReranker(reranking.NewDiversityReranker(cfg.MaxConsecutiveGenre))

	return &engineBundle{engine: engine, content: content, collab: collab}, nil
}
