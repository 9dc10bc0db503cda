// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package services

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// RouterService runs the Watermill event router under supervision.
type RouterService struct {
	router *message.Router
	name   string
}

// NewRouterService wraps an event router as a supervised service.
func NewRouterService(router *message.Router) *RouterService {
	return &RouterService{
		router: router,
		name:   "event-router",
	}
}

// Serve implements suture.Service. Run blocks until ctx is cancelled and
// handles graceful handler drain itself.
func (s *RouterService) Serve(ctx context.Context) error {
	if err := s.router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (s *RouterService) String() string {
	return s.name
}
