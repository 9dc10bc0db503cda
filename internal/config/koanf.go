// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/indiedeck/config.yaml",
	"/etc/indiedeck/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "INDIEDECK_CONFIG"

// EnvPrefix is the prefix for configuration environment variables.
// INDIEDECK_SERVER_PORT maps to server.port, INDIEDECK_CACHE_TTL to
// cache.ttl, and so on.
const EnvPrefix = "INDIEDECK_"

// Load resolves configuration from defaults, an optional YAML file, and
// environment variables, then validates the result.
func Load() (*Config, error) {
	return loadFrom(findConfigFile())
}

// LoadFile resolves configuration using an explicit config file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return loadFrom(path)
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: struct defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: optional YAML file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps INDIEDECK_SECTION_KEY to section.key. Multi-word
// sections are handled by an explicit table; everything else splits on the
// first underscore.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	// Keys whose tail itself contains underscores
	explicit := map[string]string{
		"server_read_timeout":              "server.read_timeout",
		"server_write_timeout":             "server.write_timeout",
		"server_idle_timeout":              "server.idle_timeout",
		"server_shutdown_timeout":          "server.shutdown_timeout",
		"server_cors_origins":              "server.cors_origins",
		"server_rate_limit_requests":       "server.rate_limit_requests",
		"server_rate_limit_window":         "server.rate_limit_window",
		"database_retention_days":          "database.retention_days",
		"cache_max_entries":                "cache.max_entries",
		"events_buffer_size":               "events.buffer_size",
		"events_retry_count":               "events.retry_count",
		"events_retry_initial_interval":    "events.retry_initial_interval",
		"events_close_timeout":             "events.close_timeout",
		"recommend_default_limit":          "recommend.default_limit",
		"recommend_max_limit":              "recommend.max_limit",
		"recommend_max_candidates":         "recommend.max_candidates",
		"recommend_neighbor_k":             "recommend.neighbor_k",
		"recommend_max_consecutive_genre":  "recommend.max_consecutive_genre",
		"recommend_explore_fraction":       "recommend.explore_fraction",
		"recommend_mmr_enabled":            "recommend.mmr_enabled",
		"recommend_mmr_lambda":             "recommend.mmr_lambda",
		"recommend_train_on_startup":       "recommend.train_on_startup",
		"recommend_train_interval":         "recommend.train_interval",
		"recommend_train_lookback":         "recommend.train_lookback",
		"recommend_batch_interval":         "recommend.batch_interval",
		"recommend_batch_active_window":    "recommend.batch_active_window",
		"recommend_weight_collaborative":   "recommend.weights.collaborative",
		"recommend_weight_content":         "recommend.weights.content",
		"recommend_weight_contextual":      "recommend.weights.contextual",
		"recommend_weight_popularity":      "recommend.weights.popularity",
		"logging_level":                    "logging.level",
		"logging_format":                   "logging.format",
		"logging_caller":                   "logging.caller",
	}
	if mapped, ok := explicit[key]; ok {
		return mapped
	}

	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[0] + "." + parts[1]
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings while the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}
