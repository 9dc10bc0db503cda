// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/indiedeck/indiedeck/internal/metrics"
	"github.com/indiedeck/indiedeck/internal/models"
	"github.com/indiedeck/indiedeck/internal/recommend"
	"github.com/indiedeck/indiedeck/internal/recommend/algorithms"
)

// RecommendationSource serves ranked lists, typically the cache loader.
type RecommendationSource interface {
	Get(ctx context.Context, req recommend.Request) (*recommend.Response, bool, error)
	Invalidate(ctx context.Context, userID string) error
}

// EventPublisher accepts interaction events for asynchronous processing.
type EventPublisher interface {
	PublishInteraction(in *recommend.Interaction) error
}

// CatalogStore persists catalog and user records.
type CatalogStore interface {
	UpsertGame(ctx context.Context, g *recommend.Game) error
	UpsertUser(ctx context.Context, userID string, onboardingGenres []string) error
	GetOnboardingGenres(ctx context.Context, userID string) ([]string, error)
	Ping(ctx context.Context) error
}

// EngineStatus reports training state for health and diagnostics.
type EngineStatus interface {
	Status() recommend.TrainingStatus
}

// GameSimilarity exposes the trained item-item neighborhoods.
type GameSimilarity interface {
	SimilarGames(gameID string, k int) ([]algorithms.Neighbor, error)
}

// UserSimilarity exposes the trained user-user neighborhoods.
type UserSimilarity interface {
	SimilarUsers(userID string, k int) []algorithms.Neighbor
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	source    RecommendationSource
	publisher EventPublisher
	store     CatalogStore
	engine    EngineStatus
	gameSim   GameSimilarity
	userSim   UserSimilarity

	defaultLimit int
	maxLimit     int
	version      string
	startTime    time.Time
}

// NewHandlers creates the API handlers.
func NewHandlers(
	source RecommendationSource,
	publisher EventPublisher,
	store CatalogStore,
	engine EngineStatus,
	gameSim GameSimilarity,
	userSim UserSimilarity,
	defaultLimit, maxLimit int,
	version string,
) *Handlers {
	return &Handlers{
		source:       source,
		publisher:    publisher,
		store:        store,
		engine:       engine,
		gameSim:      gameSim,
		userSim:      userSim,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		version:      version,
		startTime:    time.Now(),
	}
}

// GetRecommendations handles GET /api/v1/recommendations/user/{userID}.
func (h *Handlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RecommendationRequests.Inc()

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID is required", nil)
		return
	}

	limit := getIntParam(r, "limit", h.defaultLimit)
	if limit < 1 {
		limit = h.defaultLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	req := recommend.Request{
		UserID:  userID,
		Limit:   limit,
		Context: contextFromQuery(r),
	}

	resp, cached, err := h.source.Get(r.Context(), req)
	if err != nil {
		metrics.RecommendationErrors.Inc()
		if recommend.IsDataIntegrity(err) {
			respondError(w, http.StatusInternalServerError, "DATA_INTEGRITY_ERROR",
				"corrupted feature data detected", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to generate recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			RequestID:   resp.Metadata.RequestID,
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// contextFromQuery extracts optional request context from query params.
// Absent params yield a nil context; the contextual signal then opts out.
func contextFromQuery(r *http.Request) *recommend.RequestContext {
	q := r.URL.Query()
	if q.Get("time_of_day") == "" && q.Get("session_id") == "" && q.Get("platform") == "" {
		return nil
	}

	now := time.Now()
	return &recommend.RequestContext{
		TimeOfDay: getIntParam(r, "time_of_day", now.Hour()),
		DayOfWeek: getIntParam(r, "day_of_week", int(now.Weekday())),
		SessionID: q.Get("session_id"),
		Platform:  q.Get("platform"),
	}
}

// GetSimilarGames handles GET /api/v1/catalog/games/{gameID}/similar.
// Serves the trained item-item neighborhood; an untrained model or an
// unknown game yields an empty listing.
func (h *Handlers) GetSimilarGames(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "gameID is required", nil)
		return
	}

	neighbors, err := h.gameSim.SimilarGames(gameID, h.similarLimit(r))
	if err != nil {
		if recommend.IsDataIntegrity(err) {
			respondError(w, http.StatusInternalServerError, "DATA_INTEGRITY_ERROR",
				"corrupted feature data detected", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to compute similar games", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     similarResponse(gameID, neighbors),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// GetSimilarUsers handles GET /api/v1/users/{userID}/similar.
func (h *Handlers) GetSimilarUsers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID is required", nil)
		return
	}

	neighbors := h.userSim.SimilarUsers(userID, h.similarLimit(r))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     similarResponse(userID, neighbors),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// defaultSimilarLimit is the neighbor count when the limit param is absent.
const defaultSimilarLimit = 10

func (h *Handlers) similarLimit(r *http.Request) int {
	limit := getIntParam(r, "limit", defaultSimilarLimit)
	if limit < 1 {
		limit = defaultSimilarLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return limit
}

func similarResponse(id string, neighbors []algorithms.Neighbor) *models.SimilarResponse {
	entries := make([]models.NeighborEntry, len(neighbors))
	for i, n := range neighbors {
		entries[i] = models.NeighborEntry{ID: n.ID, Similarity: n.Similarity}
	}
	return &models.SimilarResponse{ID: id, Neighbors: entries}
}

// PostInteraction handles POST /api/v1/interactions. The event is
// published for asynchronous persistence; 202 means accepted, not yet
// durable.
func (h *Handlers) PostInteraction(w http.ResponseWriter, r *http.Request) {
	var req models.InteractionRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	action, ok := recommend.ParseActionKind(req.Action)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown action", nil)
		return
	}

	viewDuration := time.Duration(req.ViewDurationMS) * time.Millisecond
	if action == recommend.ActionSkip && viewDuration >= recommend.LongViewThreshold {
		action = recommend.ActionLongView
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	// Snapshot the user's genre preferences at event time so the log
	// stays self-contained. The client may supply them; otherwise fall
	// back to the stored onboarding selections. A failed lookup degrades
	// to an empty snapshot rather than rejecting the ingest.
	snapshot := req.GenrePrefs
	if len(snapshot) == 0 {
		if genres, err := h.store.GetOnboardingGenres(r.Context(), req.UserID); err == nil {
			snapshot = genres
		}
	}

	in := recommend.Interaction{
		UserID:        req.UserID,
		GameID:        req.GameID,
		Action:        action,
		Timestamp:     ts,
		SessionID:     req.SessionID,
		ViewDuration:  viewDuration,
		GenreSnapshot: snapshot,
		GameGenres:    req.GameGenres,
		GameTags:      req.GameTags,
	}

	if err := h.publisher.PublishInteraction(&in); err != nil {
		respondError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR",
			"interaction ingest unavailable", err)
		return
	}

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"action": action.String()},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// PutGame handles PUT /api/v1/catalog/games.
func (h *Handlers) PutGame(w http.ResponseWriter, r *http.Request) {
	var req models.GameUpsertRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	game := recommend.Game{
		ID:          req.ID,
		Title:       req.Title,
		Genres:      req.Genres,
		Tags:        req.Tags,
		PriceCents:  req.PriceCents,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
	}

	if err := h.store.UpsertGame(r.Context(), &game); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to store game", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"id": game.ID},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// PutUser handles PUT /api/v1/users.
func (h *Handlers) PutUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserUpsertRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := h.store.UpsertUser(r.Context(), req.ID, req.OnboardingGenres); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to store user", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"id": req.ID},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// PostInvalidate handles POST /api/v1/recommendations/user/{userID}/invalidate.
func (h *Handlers) PostInvalidate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID is required", nil)
		return
	}

	if err := h.source.Invalidate(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to invalidate cache", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"user_id": userID},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Health handles GET /api/v1/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	dbOK := h.store.Ping(r.Context()) == nil
	status := "ok"
	httpStatus := http.StatusOK
	if !dbOK {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	ts := h.engine.Status()

	respondJSON(w, httpStatus, &models.APIResponse{
		Status: "success",
		Data: models.HealthResponse{
			Status:       status,
			Version:      h.version,
			DatabaseOK:   dbOK,
			ModelVersion: ts.ModelVersion,
			TrainedAt:    ts.LastTrainedAt,
			Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// TrainingStatus handles GET /api/v1/recommendations/status.
func (h *Handlers) TrainingStatus(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     h.engine.Status(),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
