// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package recommend implements the hybrid recommendation engine: signal
// blending, deterministic ranking, and the diversity pipeline.
//
// The engine holds no per-user cache. Ranked-list caching, TTL handling and
// single-flight regeneration live in the cache layer, which wraps Generate.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine coordinates the scoring signals and produces ranked lists.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Registered signals and rerankers
	signals   []Signal
	rerankers []Reranker
	sigMu     sync.RWMutex

	// Training state
	trainMu       sync.RWMutex
	training      bool
	lastTrainedAt time.Time
	lastTrainErr  string
	lastTrainDur  time.Duration
	trainGames    int
	trainEvents   int
	modelVersion  atomic.Int32

	requestCount atomic.Int64
	errorCount   atomic.Int64

	dataProvider DataProvider
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		signals:   make([]Signal, 0),
		rerankers: make([]Reranker, 0),
	}, nil
}

// SetDataProvider sets the data provider for training and generation.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.dataProvider = dp
}

// RegisterSignal adds a scoring signal to the blend.
func (e *Engine) RegisterSignal(s Signal) {
	e.sigMu.Lock()
	defer e.sigMu.Unlock()

	e.signals = append(e.signals, s)
	e.logger.Info().Str("signal", s.Name()).Msg("registered signal")
}

// RegisterReranker adds a reranker to the post-processing pipeline.
// Rerankers run in registration order.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.sigMu.Lock()
	defer e.sigMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().Str("reranker", rr.Name()).Msg("registered reranker")
}

// Generate produces a ranked list for one user. A game the user has already
// acted upon never appears in the output. An empty candidate pool yields an
// empty response, not an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()
	logger.Debug().Msg("generating ranked list")

	candidates, err := e.getCandidates(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	if len(candidates) == 0 {
		logger.Debug().Msg("no candidates available")
		return e.emptyResponse(req, start), nil
	}

	scored, signalsUsed, err := e.scoreAndRank(ctx, req, candidates)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	resp := &Response{
		Games:           scored,
		TotalCandidates: len(candidates),
		Metadata:        e.buildMetadata(req, signalsUsed, start),
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(scored)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("ranked list generated")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	if req.Limit == 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}

	return req
}

// getCandidates retrieves and filters candidate games. The user's full
// interaction history and the request's exclude set are both removed, so an
// already-acted-upon game can never re-enter the list even if the provider
// returned it. Zero-history users get a pool restricted to their
// onboarding genres.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) getCandidates(ctx context.Context, req Request) ([]Game, error) {
	if e.dataProvider == nil {
		return nil, ErrNoDataProvider
	}

	history, err := e.dataProvider.GetUserHistory(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user history: %w", err)
	}

	exclude := make(map[string]struct{}, len(history)+len(req.Exclude))
	for _, id := range history {
		exclude[id] = struct{}{}
	}
	for id := range req.Exclude {
		exclude[id] = struct{}{}
	}

	candidates, err := e.dataProvider.GetCandidates(ctx, req.UserID, e.config.Limits.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	filtered := make([]Game, 0, len(candidates))
	for _, g := range candidates {
		if _, excluded := exclude[g.ID]; !excluded {
			filtered = append(filtered, g)
		}
	}

	if len(history) == 0 {
		return e.coldStartCandidates(ctx, req.UserID, filtered), nil
	}
	return filtered, nil
}

// coldStartCandidates restricts a zero-history user's pool to games
// matching the genres selected at onboarding, so popularity and other
// genre-blind signals cannot push off-genre games into the head of the
// list. Falls back to the full pool when the user made no selections, the
// lookup fails, or nothing in the catalog matches.
func (e *Engine) coldStartCandidates(ctx context.Context, userID string, candidates []Game) []Game {
	genres, err := e.dataProvider.GetOnboardingGenres(ctx, userID)
	if err != nil {
		e.logger.Warn().Str("user_id", userID).Err(err).Msg("onboarding genre lookup failed")
		return candidates
	}
	if len(genres) == 0 {
		return candidates
	}

	matching := make([]Game, 0, len(candidates))
	for _, g := range candidates {
		if matchesAnyGenre(&g, genres) {
			matching = append(matching, g)
		}
	}
	if len(matching) == 0 {
		return candidates
	}
	return matching
}

func matchesAnyGenre(g *Game, genres []string) bool {
	for _, have := range g.Genres {
		for _, want := range genres {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// scoreAndRank blends signal scores, sorts deterministically and applies
// the reranking pipeline.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreAndRank(ctx context.Context, req Request, candidates []Game) ([]ScoredGame, []string, error) {
	signals := e.getSignals()
	if len(signals) == 0 {
		return nil, nil, ErrNoSignals
	}

	candidateIDs := make([]string, len(candidates))
	gameByID := make(map[string]Game, len(candidates))
	for i, g := range candidates {
		candidateIDs[i] = g.ID
		gameByID[g.ID] = g
	}

	scoreReq := ScoreRequest{
		UserID:     req.UserID,
		Candidates: candidateIDs,
		Context:    req.Context,
	}

	results := e.runSignals(ctx, scoreReq, signals)

	scored, signalsUsed, err := e.combineScores(results, gameByID)
	if err != nil {
		return nil, nil, err
	}

	// Descending by score, ties by ascending game ID for determinism.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Game.ID < scored[j].Game.ID
	})

	scored = e.applyRerankers(ctx, scored, req.Limit)

	if len(scored) > req.Limit {
		scored = scored[:req.Limit]
	}

	return scored, signalsUsed, nil
}

// getSignals returns the registered signals under the read lock.
func (e *Engine) getSignals() []Signal {
	e.sigMu.RLock()
	defer e.sigMu.RUnlock()
	return e.signals
}

// signalResult holds the outcome of one signal's scoring call.
type signalResult struct {
	name   string
	scores map[string]float64
	err    error
}

// runSignals scores the candidate set with every trained signal in parallel.
func (e *Engine) runSignals(ctx context.Context, req ScoreRequest, signals []Signal) []signalResult {
	results := make([]signalResult, len(signals))
	var wg sync.WaitGroup

	for i, s := range signals {
		wg.Add(1)
		go func(idx int, sig Signal) {
			defer wg.Done()
			results[idx] = e.runSingleSignal(ctx, req, sig)
		}(i, s)
	}

	wg.Wait()
	return results
}

func (e *Engine) runSingleSignal(ctx context.Context, req ScoreRequest, sig Signal) signalResult {
	result := signalResult{name: sig.Name()}

	if !sig.IsTrained() {
		return result
	}

	sigCtx := ctx
	if e.config.Limits.ScoreTimeout > 0 {
		var cancel context.CancelFunc
		sigCtx, cancel = context.WithTimeout(ctx, e.config.Limits.ScoreTimeout)
		defer cancel()
	}

	result.scores, result.err = sig.Score(sigCtx, req)
	return result
}

// combineScores blends per-signal scores into one score per game. The weight
// of an unavailable signal (error, untrained, or empty result) is
// redistributed proportionally among the available ones by renormalizing
// over the used subset, so cold-start users are not systematically
// under-scored.
func (e *Engine) combineScores(results []signalResult, gameByID map[string]Game) ([]ScoredGame, []string, error) {
	weights := e.config.Weights.ToMap()

	usable := make([]signalResult, 0, len(results))
	var weightSum float64
	for _, r := range results {
		if r.err != nil {
			if IsDataIntegrity(r.err) {
				// Malformed feature vectors are a caller-visible fault,
				// not a degradable signal.
				return nil, nil, r.err
			}
			e.logger.Warn().Str("signal", r.name).Err(r.err).Msg("signal scoring failed")
			continue
		}
		if len(r.scores) == 0 || weights[r.name] <= 0 {
			continue
		}
		usable = append(usable, r)
		weightSum += weights[r.name]
	}

	if len(usable) == 0 || weightSum == 0 {
		return []ScoredGame{}, []string{}, nil
	}

	combined := make(map[string]float64)
	breakdown := make(map[string]map[string]float64)
	signalsUsed := make([]string, 0, len(usable))

	for _, r := range usable {
		signalsUsed = append(signalsUsed, r.name)
		weight := weights[r.name] / weightSum

		for gameID, score := range r.scores {
			if _, ok := gameByID[gameID]; !ok {
				continue
			}
			combined[gameID] += weight * score
			if breakdown[gameID] == nil {
				breakdown[gameID] = make(map[string]float64)
			}
			breakdown[gameID][r.name] = score
		}
	}

	scored := make([]ScoredGame, 0, len(combined))
	for gameID, score := range combined {
		scored = append(scored, ScoredGame{
			Game:   gameByID[gameID],
			Score:  score,
			Scores: breakdown[gameID],
		})
	}

	sort.Strings(signalsUsed)
	return scored, signalsUsed, nil
}

// applyRerankers applies the post-processing pipeline.
func (e *Engine) applyRerankers(ctx context.Context, games []ScoredGame, k int) []ScoredGame {
	e.sigMu.RLock()
	rerankers := e.rerankers
	e.sigMu.RUnlock()

	for _, rr := range rerankers {
		games = rr.Rerank(ctx, games, k)
	}

	return games
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, start time.Time) *Response {
	return &Response{
		Games:           []ScoredGame{},
		TotalCandidates: 0,
		Metadata:        e.buildMetadata(req, []string{}, start),
	}
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildMetadata(req Request, signalsUsed []string, start time.Time) ResponseMetadata {
	e.trainMu.RLock()
	trainedAt := e.lastTrainedAt
	e.trainMu.RUnlock()

	return ResponseMetadata{
		RequestID:    req.RequestID,
		UserID:       req.UserID,
		SignalsUsed:  signalsUsed,
		LatencyMS:    time.Since(start).Milliseconds(),
		ModelVersion: int(e.modelVersion.Load()),
		TrainedAt:    trainedAt,
		GeneratedAt:  time.Now(),
	}
}

// Train fetches the training window from the data provider and fits every
// registered signal. Training runs serially per signal; prediction stays
// available throughout on the previous models.
func (e *Engine) Train(ctx context.Context) error {
	if e.dataProvider == nil {
		return ErrNoDataProvider
	}

	e.trainMu.Lock()
	if e.training {
		e.trainMu.Unlock()
		return fmt.Errorf("training already in progress")
	}
	e.training = true
	e.trainMu.Unlock()

	start := time.Now()
	err := e.train(ctx, start)

	e.trainMu.Lock()
	e.training = false
	e.lastTrainDur = time.Since(start)
	if err != nil {
		e.lastTrainErr = err.Error()
	} else {
		e.lastTrainErr = ""
	}
	e.trainMu.Unlock()

	return err
}

func (e *Engine) train(ctx context.Context, start time.Time) error {
	since := start.Add(-e.config.Training.Lookback)

	interactions, err := e.dataProvider.GetInteractions(ctx, since)
	if err != nil {
		return fmt.Errorf("get interactions: %w", err)
	}

	games, err := e.dataProvider.GetGames(ctx)
	if err != nil {
		return fmt.Errorf("get games: %w", err)
	}

	if len(interactions) < e.config.Training.MinInteractions {
		e.logger.Info().
			Int("interactions", len(interactions)).
			Int("min", e.config.Training.MinInteractions).
			Msg("not enough interactions, skipping training")
		return nil
	}

	for _, s := range e.getSignals() {
		sigStart := time.Now()
		if err := s.Train(ctx, interactions, games); err != nil {
			return fmt.Errorf("train %s: %w", s.Name(), err)
		}
		e.logger.Debug().
			Str("signal", s.Name()).
			Dur("duration", time.Since(sigStart)).
			Msg("signal trained")
	}

	e.trainMu.Lock()
	e.lastTrainedAt = time.Now()
	e.trainEvents = len(interactions)
	e.trainGames = len(games)
	e.trainMu.Unlock()
	e.modelVersion.Add(1)

	e.logger.Info().
		Int("interactions", len(interactions)).
		Int("games", len(games)).
		Int("model_version", int(e.modelVersion.Load())).
		Dur("duration", time.Since(start)).
		Msg("training complete")

	return nil
}

// Status returns the engine's training status.
func (e *Engine) Status() TrainingStatus {
	e.trainMu.RLock()
	defer e.trainMu.RUnlock()

	return TrainingStatus{
		IsTraining:             e.training,
		LastTrainedAt:          e.lastTrainedAt,
		LastTrainingDurationMS: e.lastTrainDur.Milliseconds(),
		LastError:              e.lastTrainErr,
		InteractionCount:       e.trainEvents,
		GameCount:              e.trainGames,
		ModelVersion:           int(e.modelVersion.Load()),
	}
}

// RequestCount returns the number of Generate calls served.
func (e *Engine) RequestCount() int64 {
	return e.requestCount.Load()
}

// ErrorCount returns the number of failed Generate calls.
func (e *Engine) ErrorCount() int64 {
	return e.errorCount.Load()
}
