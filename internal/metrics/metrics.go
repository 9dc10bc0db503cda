// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package metrics defines the Prometheus instrumentation surface.
// Collectors are registered at init through promauto and exposed on
// /metrics by the API router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "indiedeck"

// HTTP metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Recommendation metrics.
var (
	RecommendationRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "requests_total",
		Help:      "Ranked-list requests served.",
	})

	RecommendationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "errors_total",
		Help:      "Ranked-list requests that failed.",
	})

	TrainingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "training_duration_seconds",
		Help:      "Model training run duration.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	TrainingRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "training_runs_total",
		Help:      "Training runs by outcome.",
	}, []string{"outcome"})
)

// Cache metrics.
var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Ranked-list cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Ranked-list cache misses.",
	})

	CacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Per-user cache invalidations.",
	})

	CacheRegenerations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "regenerations_total",
		Help:      "Ranked lists regenerated after a miss.",
	})

	RegenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "regeneration_duration_seconds",
		Help:      "Time spent regenerating a ranked list.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Ingest metrics.
var (
	InteractionsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "interactions_total",
		Help:      "Interactions persisted by action kind.",
	}, []string{"action"})

	IngestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "errors_total",
		Help:      "Interaction events that failed to persist.",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Events published by topic.",
	}, []string{"topic"})
)
