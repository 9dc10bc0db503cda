// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/indiedeck/indiedeck/internal/metrics"
)

// Trainer is the engine's training surface.
type Trainer interface {
	Train(ctx context.Context) error
}

// LogPruner trims the interaction log to the retention window.
type LogPruner interface {
	PruneInteractions(ctx context.Context, retention time.Duration) (int64, error)
}

// TrainerServiceConfig configures the training lifecycle.
type TrainerServiceConfig struct {
	// TrainOnStartup triggers a training run when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often models retrain.
	TrainInterval time.Duration

	// Retention is the interaction log retention window. Zero disables
	// pruning.
	Retention time.Duration
}

// trainTimeout bounds a single training run.
const trainTimeout = 30 * time.Minute

// TrainerService retrains the scoring models on a schedule and prunes
// the interaction log afterwards. Prediction stays available on the
// previous models while a run is in progress.
type TrainerService struct {
	trainer Trainer
	pruner  LogPruner
	config  TrainerServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewTrainerService creates the training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainerService(trainer Trainer, pruner LogPruner, cfg TrainerServiceConfig, logger zerolog.Logger) *TrainerService {
	return &TrainerService{
		trainer: trainer,
		pruner:  pruner,
		config:  cfg,
		logger:  logger.With().Str("service", "trainer").Logger(),
		name:    "trainer-service",
	}
}

// Serve implements suture.Service.
func (s *TrainerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("trainer service starting")

	if s.config.TrainOnStartup {
		if err := s.train(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial training failed (will retry on schedule)")
		}
	}

	if s.config.TrainInterval <= 0 {
		s.config.TrainInterval = 6 * time.Hour
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("trainer service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.train(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled training failed")
			}
			s.prune(ctx)
		}
	}
}

func (s *TrainerService) train(ctx context.Context) error {
	trainCtx, cancel := context.WithTimeout(ctx, trainTimeout)
	defer cancel()

	start := time.Now()
	if err := s.trainer.Train(trainCtx); err != nil {
		metrics.TrainingRuns.WithLabelValues("failure").Inc()
		return err
	}

	metrics.TrainingRuns.WithLabelValues("success").Inc()
	metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	s.logger.Info().Dur("duration", time.Since(start)).Msg("model training complete")
	return nil
}

func (s *TrainerService) prune(ctx context.Context) {
	if s.pruner == nil || s.config.Retention <= 0 {
		return
	}
	if _, err := s.pruner.PruneInteractions(ctx, s.config.Retention); err != nil {
		s.logger.Warn().Err(err).Msg("interaction log pruning failed")
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *TrainerService) String() string {
	return s.name
}
