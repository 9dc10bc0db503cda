// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryEntry is one cached value with its expiry.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process TTL store. Expired entries are dropped
// lazily on read and swept periodically; MaxEntries bounds memory by
// evicting the soonest-to-expire entries when exceeded.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int

	stop     chan struct{}
	stopOnce sync.Once

	// now is stubbed in tests.
	now func() time.Time
}

// sweepInterval is how often the background sweeper runs.
const sweepInterval = 5 * time.Minute

// NewMemoryStore creates an in-process store. maxEntries of 0 means
// unbounded.
func NewMemoryStore(maxEntries int) *MemoryStore {
	s := &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
		now:        time.Now,
	}
	go s.sweeper()
	return s
}

// Get returns the cached value, or a miss when absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; Set may have raced.
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a value with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}

	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		s.evictLocked()
	}
	return nil
}

// Delete removes a single key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// DeletePrefix removes every key with the given prefix.
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
	return nil
}

// Close stops the background sweeper.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len returns the number of live entries, expired included until swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictLocked drops the soonest-to-expire entries until under the bound.
// Caller holds the write lock.
func (s *MemoryStore) evictLocked() {
	for len(s.entries) > s.maxEntries {
		var victim string
		var soonest time.Time
		for k, e := range s.entries {
			if victim == "" || e.expiresAt.Before(soonest) {
				victim = k
				soonest = e.expiresAt
			}
		}
		delete(s.entries, victim)
	}
}

func (s *MemoryStore) sweeper() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			for k, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		}
	}
}
