// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

func testResponse(userID string) *recommend.Response {
	return &recommend.Response{
		Games: []recommend.ScoredGame{
			{Game: recommend.Game{ID: "g1", Title: "Game g1"}, Score: 0.9},
		},
		TotalCandidates: 1,
		Metadata:        recommend.ResponseMetadata{UserID: userID},
	}
}

func TestLoaderMissThenHit(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	var calls atomic.Int32
	loader := NewLoader(store, func(_ context.Context, req recommend.Request) (*recommend.Response, error) {
		calls.Add(1)
		return testResponse(req.UserID), nil
	}, time.Hour, zerolog.Nop())

	req := recommend.Request{UserID: "u1", Limit: 20}

	resp, cached, err := loader.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cached {
		t.Error("first request reported as cache hit")
	}
	if len(resp.Games) != 1 {
		t.Fatalf("got %d games, want 1", len(resp.Games))
	}

	resp, cached, err = loader.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !cached {
		t.Error("second request reported as miss")
	}
	if !resp.Metadata.CacheHit {
		t.Error("cache hit not flagged in metadata")
	}
	if calls.Load() != 1 {
		t.Errorf("generate called %d times, want 1", calls.Load())
	}
}

func TestLoaderSingleFlight(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	loader := NewLoader(store, func(_ context.Context, req recommend.Request) (*recommend.Response, error) {
		calls.Add(1)
		<-release
		return testResponse(req.UserID), nil
	}, time.Hour, zerolog.Nop())

	req := recommend.Request{UserID: "u1", Limit: 20}

	const concurrent = 20
	var wg sync.WaitGroup
	errs := make([]error, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _, errs[idx] = loader.Get(context.Background(), req)
		}(i)
	}

	// Let all goroutines pile onto the key, then release the leader.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("generate called %d times for concurrent misses, want exactly 1", calls.Load())
	}
}

func TestLoaderDistinctUsersDistinctFlights(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	var calls atomic.Int32
	loader := NewLoader(store, func(_ context.Context, req recommend.Request) (*recommend.Response, error) {
		calls.Add(1)
		return testResponse(req.UserID), nil
	}, time.Hour, zerolog.Nop())

	for _, userID := range []string{"u1", "u2", "u3"} {
		if _, _, err := loader.Get(context.Background(), recommend.Request{UserID: userID, Limit: 20}); err != nil {
			t.Fatalf("Get %s: %v", userID, err)
		}
	}
	if calls.Load() != 3 {
		t.Errorf("generate called %d times, want 3", calls.Load())
	}
}

func TestLoaderInvalidateForcesRegeneration(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	var calls atomic.Int32
	loader := NewLoader(store, func(_ context.Context, req recommend.Request) (*recommend.Response, error) {
		calls.Add(1)
		return testResponse(req.UserID), nil
	}, time.Hour, zerolog.Nop())

	req := recommend.Request{UserID: "u1", Limit: 20}

	if _, _, err := loader.Get(context.Background(), req); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := loader.Invalidate(context.Background(), "u1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, cached, err := loader.Get(context.Background(), req); err != nil || cached {
		t.Fatalf("post-invalidate Get: cached=%v err=%v, want fresh generation", cached, err)
	}
	if calls.Load() != 2 {
		t.Errorf("generate called %d times, want 2", calls.Load())
	}
}

func TestLoaderGenerateError(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	wantErr := errors.New("upstream down")
	loader := NewLoader(store, func(_ context.Context, _ recommend.Request) (*recommend.Response, error) {
		return nil, wantErr
	}, time.Hour, zerolog.Nop())

	_, _, err := loader.Get(context.Background(), recommend.Request{UserID: "u1", Limit: 20})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	// Errors must not be cached.
	if _, ok, _ := store.Get(context.Background(), RecommendationKey("u1", 20)); ok {
		t.Error("failed generation left a cache entry")
	}
}
