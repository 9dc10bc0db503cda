// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package recommend

import (
	"context"
	"time"
)

// ActionKind classifies a swipe-deck interaction with a game.
type ActionKind int

const (
	// ActionSkip indicates the card was swiped past without engagement.
	ActionSkip ActionKind = iota
	// ActionLongView indicates the card was viewed for more than 30 seconds.
	ActionLongView
	// ActionViewDetails indicates the detail page was opened.
	ActionViewDetails
	// ActionLike indicates a right swipe.
	ActionLike
	// ActionWishlist indicates the game was added to the wishlist.
	ActionWishlist
	// ActionSuperLike indicates a super-like.
	ActionSuperLike
	// ActionDislike indicates a left swipe with explicit rejection.
	ActionDislike
)

// LongViewThreshold is the minimum view duration that upgrades a plain view
// to a long-view signal.
const LongViewThreshold = 30 * time.Second

// String returns a human-readable name for the action kind.
func (a ActionKind) String() string {
	switch a {
	case ActionSuperLike:
		return "super_like"
	case ActionWishlist:
		return "wishlist_add"
	case ActionLike:
		return "like"
	case ActionViewDetails:
		return "view_details"
	case ActionLongView:
		return "long_view"
	case ActionSkip:
		return "skip"
	case ActionDislike:
		return "dislike"
	default:
		return "unknown"
	}
}

// Weight returns the fixed preference weight for this action kind.
// These weights feed the sparse interaction vectors used for user-user
// similarity and the accumulated genre preference profile.
func (a ActionKind) Weight() float64 {
	switch a {
	case ActionSuperLike:
		return 10
	case ActionWishlist:
		return 8
	case ActionLike:
		return 5
	case ActionViewDetails:
		return 3
	case ActionLongView:
		return 2
	case ActionSkip:
		return 0
	case ActionDislike:
		return -3
	default:
		return 0
	}
}

// Qualifying reports whether this action invalidates the user's cached
// ranked list. Strong preference signals warrant a fresh generation;
// passive views and skips do not.
func (a ActionKind) Qualifying() bool {
	switch a {
	case ActionSuperLike, ActionWishlist, ActionLike, ActionDislike:
		return true
	default:
		return false
	}
}

// ParseActionKind converts a wire-format action name to an ActionKind.
// Unknown names map to ActionSkip with ok=false.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "super_like":
		return ActionSuperLike, true
	case "wishlist_add":
		return ActionWishlist, true
	case "like":
		return ActionLike, true
	case "view_details":
		return ActionViewDetails, true
	case "long_view":
		return ActionLongView, true
	case "skip":
		return ActionSkip, true
	case "dislike":
		return ActionDislike, true
	default:
		return ActionSkip, false
	}
}

// Interaction represents one immutable user-game interaction event.
// Once recorded it is never updated or deleted, only bulk-archived after
// the retention window.
type Interaction struct {
	// UserID is the opaque user identifier.
	UserID string `json:"user_id"`

	// GameID is the opaque game identifier.
	GameID string `json:"game_id"`

	// Action classifies the interaction.
	Action ActionKind `json:"action"`

	// Timestamp is when the interaction occurred.
	Timestamp time.Time `json:"timestamp"`

	// SessionID groups interactions within one swipe session.
	SessionID string `json:"session_id,omitempty"`

	// ViewDuration is how long the card was on screen.
	ViewDuration time.Duration `json:"view_duration,omitempty"`

	// GenreSnapshot captures the user's genre preferences at event time.
	GenreSnapshot []string `json:"genre_snapshot,omitempty"`

	// GameGenres and GameTags snapshot the game's catalog attributes at
	// event time, so the log stays self-contained across catalog edits.
	GameGenres []string `json:"game_genres,omitempty"`
	GameTags   []string `json:"game_tags,omitempty"`
}

// Game represents a catalog entry with the static attributes that feed
// content-based scoring. Interaction history never mutates a Game.
type Game struct {
	// ID is the opaque game identifier.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres lists genre names; the first entry is the primary genre.
	Genres []string `json:"genres"`

	// Tags lists free-form catalog tags.
	Tags []string `json:"tags,omitempty"`

	// PriceCents is the list price in cents. Zero means free.
	PriceCents int `json:"price_cents"`

	// Description is the catalog text description.
	Description string `json:"description,omitempty"`

	// ReleaseYear is the release year, zero if unknown.
	ReleaseYear int `json:"release_year,omitempty"`
}

// PrimaryGenre returns the game's first genre, or empty string.
func (g Game) PrimaryGenre() string {
	if len(g.Genres) == 0 {
		return ""
	}
	return g.Genres[0]
}

// ScoredGame is a game with its blended recommendation score.
type ScoredGame struct {
	// Game is the catalog entry.
	Game Game `json:"game"`

	// Score is the blended score in [0, 1], higher is better.
	Score float64 `json:"score"`

	// Scores breaks the blend down by signal name.
	Scores map[string]float64 `json:"scores,omitempty"`

	// Explored marks entries injected by the exploration pass.
	Explored bool `json:"explored,omitempty"`
}

// Request is a recommendation request for one user.
type Request struct {
	// UserID is the user to generate recommendations for.
	UserID string `json:"user_id"`

	// Limit is the number of games to return.
	// Defaults to Config.Limits.DefaultLimit if zero.
	Limit int `json:"limit,omitempty"`

	// Exclude is an additional set of game IDs to exclude, on top of the
	// user's full interaction history.
	Exclude map[string]struct{} `json:"-"`

	// Context carries session and time-of-day information for the
	// contextual signal.
	Context *RequestContext `json:"context,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// RequestContext provides contextual information for scoring.
type RequestContext struct {
	// TimeOfDay is the hour (0-23) in the user's local time.
	TimeOfDay int `json:"time_of_day,omitempty"`

	// DayOfWeek is the day (0=Sunday, 6=Saturday).
	DayOfWeek int `json:"day_of_week,omitempty"`

	// SessionID is the active swipe session, if any.
	SessionID string `json:"session_id,omitempty"`

	// Platform is the client platform (ios, android, web).
	Platform string `json:"platform,omitempty"`
}

// Response is a generated ranked list with diagnostics.
type Response struct {
	// Games is the ordered ranked list.
	Games []ScoredGame `json:"games"`

	// TotalCandidates is the number of candidates considered.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the user the list was generated for.
	UserID string `json:"user_id"`

	// SignalsUsed lists the signals that contributed scores.
	SignalsUsed []string `json:"signals_used"`

	// LatencyMS is the generation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the list was served from cache.
	CacheHit bool `json:"cache_hit"`

	// ModelVersion is the trained model version used.
	ModelVersion int `json:"model_version"`

	// TrainedAt is when the models were last trained.
	TrainedAt time.Time `json:"trained_at"`

	// GeneratedAt is when the list was generated.
	GeneratedAt time.Time `json:"generated_at"`
}

// DataProvider is the external data dependency of the engine: the
// interaction log and the read-only game catalog, both owned outside the
// recommendation core. Fetches through this interface are the only points
// where generation may block.
type DataProvider interface {
	// GetInteractions returns interaction events since the given time,
	// for signal training.
	GetInteractions(ctx context.Context, since time.Time) ([]Interaction, error)

	// GetGames returns the full game catalog.
	GetGames(ctx context.Context) ([]Game, error)

	// GetUserHistory returns game IDs the user has acted upon.
	GetUserHistory(ctx context.Context, userID string) ([]string, error)

	// GetCandidates returns candidate games for the user, excluding games
	// already present in the user's history.
	GetCandidates(ctx context.Context, userID string, limit int) ([]Game, error)

	// GetOnboardingGenres returns the genres the user selected at
	// onboarding, the cold-start fallback for the content signal.
	GetOnboardingGenres(ctx context.Context, userID string) ([]string, error)
}

// ScoreRequest is the per-request input handed to each signal.
type ScoreRequest struct {
	// UserID is the user being scored for.
	UserID string

	// Candidates are the game IDs to score.
	Candidates []string

	// Context is the optional request context.
	Context *RequestContext
}

// Signal is one of the four scoring sources blended by the engine.
// A signal that cannot score a given user (for example collaborative
// filtering for a cold-start user) returns an empty map and no error; the
// engine redistributes its weight across the remaining signals.
type Signal interface {
	// Name returns the signal identifier (collaborative, content,
	// contextual, popularity).
	Name() string

	// Train fits the signal model on interaction and catalog data.
	Train(ctx context.Context, interactions []Interaction, games []Game) error

	// Score returns per-game scores normalized to [0, 1] for the request's
	// candidate set. Games absent from the map are treated as unscored.
	Score(ctx context.Context, req ScoreRequest) (map[string]float64, error)

	// IsTrained returns whether the model has been trained.
	IsTrained() bool

	// Version returns the model version (incremented on each train).
	Version() int

	// LastTrainedAt returns when the model was last trained.
	LastTrainedAt() time.Time
}

// Reranker modifies a ranked list for diversity or other objectives.
type Reranker interface {
	// Name returns the reranker identifier (diversity, mmr).
	Name() string

	// Rerank reorders the scored list to optimize a secondary objective.
	// Input is already sorted by descending score. Returns up to k games.
	Rerank(ctx context.Context, games []ScoredGame, k int) []ScoredGame
}

// TrainingStatus reports the engine's training state.
type TrainingStatus struct {
	// IsTraining indicates a training run is in progress.
	IsTraining bool `json:"is_training"`

	// LastTrainedAt is when training last completed.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is the duration of the last run.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// InteractionCount is the size of the last training set.
	InteractionCount int `json:"interaction_count"`

	// GameCount is the number of catalog games seen at training.
	GameCount int `json:"game_count"`

	// ModelVersion is the current model version.
	ModelVersion int `json:"model_version"`
}
