// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package config provides layered configuration for the IndieDeck service.
//
// Configuration is resolved in three layers, later layers overriding earlier
// ones: struct defaults, an optional YAML config file, and environment
// variables prefixed with INDIEDECK_.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Events    EventsConfig    `koanf:"events"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimitRequests is the per-IP request budget per RateLimitWindow.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds interaction store settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty means in-memory.
	Path string `koanf:"path"`

	// RetentionDays is the interaction retention window before bulk archival.
	RetentionDays int `koanf:"retention_days"`
}

// CacheConfig holds ranked-list cache settings.
type CacheConfig struct {
	// Backend selects the cache store: "memory" or "badger".
	Backend string `koanf:"backend"`

	// Path is the BadgerDB directory (badger backend only).
	Path string `koanf:"path"`

	// TTL is the ranked-list time-to-live.
	TTL time.Duration `koanf:"ttl"`

	// MaxEntries bounds the in-memory backend.
	MaxEntries int `koanf:"max_entries"`
}

// EventsConfig holds interaction ingest pipeline settings.
type EventsConfig struct {
	// BufferSize is the gochannel pub/sub buffer per subscriber.
	BufferSize int64 `koanf:"buffer_size"`

	// RetryCount is the router middleware retry budget per message.
	RetryCount int `koanf:"retry_count"`

	// RetryInitialInterval is the first retry delay (doubles per attempt).
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`

	// CloseTimeout bounds router shutdown.
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// Weights blends the four scoring signals. Normalized at runtime, so
	// values don't need to sum to 1.0.
	Weights SignalWeights `koanf:"weights"`

	// DefaultLimit and MaxLimit bound the ranked list size.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// MaxCandidates bounds the candidate pool fetched per request.
	MaxCandidates int `koanf:"max_candidates"`

	// NeighborK is the number of similar users consulted by the
	// collaborative signal.
	NeighborK int `koanf:"neighbor_k"`

	// MaxConsecutiveGenre caps runs of a primary genre in the final list.
	MaxConsecutiveGenre int `koanf:"max_consecutive_genre"`

	// ExploreFraction is the share of tail entries replaced with games
	// sampled from genres absent from the head of the list.
	ExploreFraction float64 `koanf:"explore_fraction"`

	// MMREnabled registers the optional MMR reranker.
	MMREnabled bool    `koanf:"mmr_enabled"`
	MMRLambda  float64 `koanf:"mmr_lambda"`

	// TrainOnStartup trains signal models before serving.
	TrainOnStartup bool `koanf:"train_on_startup"`

	// TrainInterval is the model retraining period.
	TrainInterval time.Duration `koanf:"train_interval"`

	// TrainLookback bounds how far back interactions feed training.
	TrainLookback time.Duration `koanf:"train_lookback"`

	// BatchInterval is the period of the scheduled full regeneration job.
	BatchInterval time.Duration `koanf:"batch_interval"`

	// BatchActiveWindow selects which users the batch job regenerates.
	BatchActiveWindow time.Duration `koanf:"batch_active_window"`
}

// SignalWeights defines the relative contribution of each scoring signal.
type SignalWeights struct {
	Collaborative float64 `koanf:"collaborative"`
	Content       float64 `koanf:"content"`
	Contextual    float64 `koanf:"contextual"`
	Popularity    float64 `koanf:"popularity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with all default values applied.
// The scoring weights default to the 0.40/0.30/0.20/0.10 blend.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
		},
		Database: DatabaseConfig{
			Path:          "/data/indiedeck.db",
			RetentionDays: 365,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			Path:       "/data/cache",
			TTL:        6 * time.Hour,
			MaxEntries: 10000,
		},
		Events: EventsConfig{
			BufferSize:           1024,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			CloseTimeout:         30 * time.Second,
		},
		Recommend: RecommendConfig{
			Weights: SignalWeights{
				Collaborative: 0.40,
				Content:       0.30,
				Contextual:    0.20,
				Popularity:    0.10,
			},
			DefaultLimit:        20,
			MaxLimit:            100,
			MaxCandidates:       2000,
			NeighborK:           50,
			MaxConsecutiveGenre: 3,
			ExploreFraction:     0.20,
			MMREnabled:          false,
			MMRLambda:           0.7,
			TrainOnStartup:      true,
			TrainInterval:       6 * time.Hour,
			TrainLookback:       90 * 24 * time.Hour,
			BatchInterval:       time.Hour,
			BatchActiveWindow:   7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks configuration invariants that cannot be expressed as types.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}

	switch c.Cache.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"badger\", got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required for the badger backend")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	w := c.Recommend.Weights
	if w.Collaborative < 0 || w.Content < 0 || w.Contextual < 0 || w.Popularity < 0 {
		return fmt.Errorf("recommend.weights must be non-negative")
	}
	if w.Collaborative+w.Content+w.Contextual+w.Popularity == 0 {
		return fmt.Errorf("recommend.weights must not all be zero")
	}

	if c.Recommend.DefaultLimit < 1 {
		return fmt.Errorf("recommend.default_limit must be >= 1, got %d", c.Recommend.DefaultLimit)
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= default_limit (%d)",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	if c.Recommend.NeighborK < 1 {
		return fmt.Errorf("recommend.neighbor_k must be >= 1, got %d", c.Recommend.NeighborK)
	}
	if c.Recommend.MaxConsecutiveGenre < 1 {
		return fmt.Errorf("recommend.max_consecutive_genre must be >= 1, got %d", c.Recommend.MaxConsecutiveGenre)
	}
	if c.Recommend.ExploreFraction < 0 || c.Recommend.ExploreFraction > 1 {
		return fmt.Errorf("recommend.explore_fraction must be in [0, 1], got %v", c.Recommend.ExploreFraction)
	}
	if c.Recommend.MMRLambda < 0 || c.Recommend.MMRLambda > 1 {
		return fmt.Errorf("recommend.mmr_lambda must be in [0, 1], got %v", c.Recommend.MMRLambda)
	}

	return nil
}
