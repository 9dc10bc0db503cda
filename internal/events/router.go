// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/indiedeck/indiedeck/internal/metrics"
	"github.com/indiedeck/indiedeck/internal/recommend"
)

// InteractionAppender persists interaction events.
type InteractionAppender interface {
	AppendInteraction(ctx context.Context, in *recommend.Interaction) error
}

// CacheInvalidator drops a user's cached ranked lists.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// RouterConfig configures the event router.
type RouterConfig struct {
	// RetryCount is how many times a failing handler is retried before
	// the message is dropped.
	RetryCount int

	// RetryInitialInterval is the first retry delay; subsequent delays
	// back off exponentially.
	RetryInitialInterval time.Duration

	// CloseTimeout bounds graceful shutdown.
	CloseTimeout time.Duration
}

// NewRouter builds the event router: interactions are persisted, and
// qualifying ones (likes, super-likes, wishlist adds, dislikes) emit an
// invalidation for the user's cached lists. Passive views and skips
// leave the cache untouched.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(
	cfg RouterConfig,
	pubSub message.Publisher,
	subscriber message.Subscriber,
	appender InteractionAppender,
	invalidator CacheInvalidator,
	logger zerolog.Logger,
) (*message.Router, error) {
	wmLogger := NewLoggerAdapter(logger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryCount,
		InitialInterval: cfg.RetryInitialInterval,
		Multiplier:      2.0,
		MaxInterval:     30 * time.Second,
		Logger:          wmLogger,
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		retry.Middleware,
		middleware.Recoverer,
	)

	log := logger.With().Str("component", "events").Logger()

	router.AddHandler(
		"persist-interactions",
		TopicInteractions,
		subscriber,
		TopicInvalidations,
		pubSub,
		persistHandler(appender, log),
	)

	router.AddNoPublisherHandler(
		"invalidate-cache",
		TopicInvalidations,
		subscriber,
		invalidateHandler(invalidator, log),
	)

	return router, nil
}

// persistHandler appends the interaction and, for qualifying actions,
// emits an invalidation message for the user.
//
//nolint:gocritic // hugeParam: log captured by value
func persistHandler(appender InteractionAppender, log zerolog.Logger) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		var event InteractionEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			// Malformed payloads are not retryable.
			log.Error().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed interaction event")
			metrics.IngestErrors.Inc()
			return nil, nil
		}

		in := event.Interaction
		if err := appender.AppendInteraction(msg.Context(), &in); err != nil {
			metrics.IngestErrors.Inc()
			return nil, fmt.Errorf("append interaction: %w", err)
		}
		metrics.InteractionsIngested.WithLabelValues(in.Action.String()).Inc()

		if !in.Action.Qualifying() {
			return nil, nil
		}

		out, err := NewInvalidationMessage(in.UserID, in.Action.String())
		if err != nil {
			return nil, err
		}
		middleware.SetCorrelationID(watermill.NewUUID(), out)
		return []*message.Message{out}, nil
	}
}

//nolint:gocritic // hugeParam: log captured by value
func invalidateHandler(invalidator CacheInvalidator, log zerolog.Logger) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var event InvalidationEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			log.Error().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed invalidation event")
			return nil
		}

		if err := invalidator.Invalidate(msg.Context(), event.UserID); err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}

		log.Debug().
			Str("user_id", event.UserID).
			Str("reason", event.Reason).
			Msg("cache invalidated by event")
		return nil
	}
}
