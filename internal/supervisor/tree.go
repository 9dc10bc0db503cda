// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package supervisor builds the process service tree. A crash in the
// events layer restarts that layer without taking down the API, which
// keeps serving cached lists.
package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64

	// FailureBackoff is how long to wait when the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds graceful shutdown per service.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is the two-layer supervisor hierarchy: an events layer for the
// ingest pipeline and background jobs, and an api layer for HTTP.
type Tree struct {
	root   *suture.Supervisor
	events *suture.Supervisor
	api    *suture.Supervisor
}

// NewTree creates the supervisor tree.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTree(cfg TreeConfig, logger zerolog.Logger) *Tree {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5.0
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = 30.0
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = 15 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	log := logger.With().Str("component", "supervisor").Logger()

	rootSpec := suture.Spec{
		EventHook:        eventHook(log),
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}

	root := suture.New("indiedeck", rootSpec)
	events := suture.New("events-layer", childSpec)
	api := suture.New("api-layer", childSpec)

	root.Add(events)
	root.Add(api)

	return &Tree{root: root, events: events, api: api}
}

// AddEventService adds a service to the events layer.
func (t *Tree) AddEventService(s suture.Service) {
	t.events.Add(s)
}

// AddAPIService adds a service to the api layer.
func (t *Tree) AddAPIService(s suture.Service) {
	t.api.Add(s)
}

// Serve runs the tree until ctx is cancelled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// eventHook routes suture lifecycle events into zerolog.
//
//nolint:gocritic // hugeParam: log captured by value
func eventHook(log zerolog.Logger) suture.EventHook {
	return func(ev suture.Event) {
		switch ev.Type() {
		case suture.EventTypeServiceTerminate, suture.EventTypeServicePanic:
			log.Warn().Interface("event", ev.Map()).Msg(ev.String())
		case suture.EventTypeBackoff:
			log.Error().Interface("event", ev.Map()).Msg(ev.String())
		default:
			log.Info().Interface("event", ev.Map()).Msg(ev.String())
		}
	}
}
