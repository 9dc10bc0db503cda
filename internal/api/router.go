// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package api provides HTTP routing and handlers using the Chi router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/indiedeck/indiedeck/internal/middleware"
)

// RouterConfig configures the HTTP router.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter wires the middleware stack and all routes.
func NewRouter(cfg RouterConfig, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	// CORS must be global to handle OPTIONS preflight.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		r.Get("/health", h.Health)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/user/{userID}", h.GetRecommendations)
			r.Post("/user/{userID}/invalidate", h.PostInvalidate)
			r.Get("/status", h.TrainingStatus)
		})

		r.Post("/interactions", h.PostInteraction)
		r.Put("/catalog/games", h.PutGame)
		r.Get("/catalog/games/{gameID}/similar", h.GetSimilarGames)
		r.Put("/users", h.PutUser)
		r.Get("/users/{userID}/similar", h.GetSimilarUsers)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
