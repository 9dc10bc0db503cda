// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/indiedeck/indiedeck/internal/metrics"
	"github.com/indiedeck/indiedeck/internal/recommend"
)

// Publisher publishes interaction and invalidation events, guarded by a
// circuit breaker so a wedged subscriber cannot stall the request path.
type Publisher struct {
	pub     message.Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  zerolog.Logger
}

// NewPublisher wraps a Watermill publisher with a circuit breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, logger zerolog.Logger) *Publisher {
	log := logger.With().Str("component", "events").Logger()

	settings := gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}

	return &Publisher{
		pub:     pub,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  log,
	}
}

// PublishInteraction publishes a recorded interaction.
func (p *Publisher) PublishInteraction(in *recommend.Interaction) error {
	msg, err := NewInteractionMessage(in)
	if err != nil {
		return err
	}
	return p.publish(TopicInteractions, msg)
}

// PublishInvalidation requests a cache drop for one user.
func (p *Publisher) PublishInvalidation(userID, reason string) error {
	msg, err := NewInvalidationMessage(userID, reason)
	if err != nil {
		return err
	}
	return p.publish(TopicInvalidations, msg)
}

func (p *Publisher) publish(topic string, msg *message.Message) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.pub.Publish(topic, msg)
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// NewGoChannelPubSub creates the in-process pub/sub both the publisher
// and the router attach to.
func NewGoChannelPubSub(bufferSize int, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(bufferSize),
		Persistent:          false,
	}, logger)
}
