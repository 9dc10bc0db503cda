// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package events carries interaction traffic between the API and the
// persistence/invalidation handlers over an in-process Watermill pub/sub.
// Decoupling ingest from the request path bounds swipe latency: the API
// acknowledges as soon as the event is published.
package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// Topics.
const (
	// TopicInteractions carries recorded swipe-deck interactions.
	TopicInteractions = "interactions"

	// TopicInvalidations carries per-user cache invalidation requests.
	TopicInvalidations = "cache.invalidations"
)

// InteractionEvent is the wire form of a recorded interaction.
type InteractionEvent struct {
	Interaction recommend.Interaction `json:"interaction"`
	ReceivedAt  time.Time             `json:"received_at"`
}

// InvalidationEvent requests a cache drop for one user.
type InvalidationEvent struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}

// NewInteractionMessage wraps an interaction into a Watermill message.
func NewInteractionMessage(in *recommend.Interaction) (*message.Message, error) {
	payload, err := json.Marshal(InteractionEvent{
		Interaction: *in,
		ReceivedAt:  time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal interaction event: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), payload), nil
}

// NewInvalidationMessage wraps an invalidation request into a message.
func NewInvalidationMessage(userID, reason string) (*message.Message, error) {
	payload, err := json.Marshal(InvalidationEvent{UserID: userID, Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("marshal invalidation event: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), payload), nil
}
