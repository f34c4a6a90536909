// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nixgames/trivia-rooms/models"
)

// MemoryStore keeps room documents in process memory. It is the
// storage fallback when no database is reachable and the store used by
// most tests. Documents are held serialized, so readers always get an
// independent copy.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]memoryEntry
	// clock is swapped out by tests that need deterministic revisions.
	clock func() int64
}

type memoryEntry struct {
	doc       []byte
	updatedAt int64
}

// NewMemoryStore creates an empty in-memory room store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: map[string]memoryEntry{},
		clock: func() int64 { return time.Now().UnixNano() },
	}
}

// Get fetches the room document by code.
func (s *MemoryStore) Get(ctx context.Context, code string) (*models.Room, error) {
	s.mu.RLock()
	entry, ok := s.rooms[normalizeCode(code)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var room models.Room
	if err := json.Unmarshal(entry.doc, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room document: %w", err)
	}
	return &room, nil
}

// Put replaces the whole room document, creating it if absent.
func (s *MemoryStore) Put(ctx context.Context, room *models.Room) error {
	doc, err := room.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode room document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rev := s.clock()
	// Revisions must strictly increase even when two writes land in the
	// same clock tick.
	if prev, ok := s.rooms[normalizeCode(room.Code)]; ok && rev <= prev.updatedAt {
		rev = prev.updatedAt + 1
	}
	s.rooms[normalizeCode(room.Code)] = memoryEntry{doc: doc, updatedAt: rev}
	return nil
}

// Revision returns the marker of the last write for the room.
func (s *MemoryStore) Revision(ctx context.Context, code string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.rooms[normalizeCode(code)]
	if !ok {
		return 0, ErrNotFound
	}
	return entry.updatedAt, nil
}

// List returns every room, most recently written first.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	entries := make([]memoryEntry, 0, len(s.rooms))
	for _, entry := range s.rooms {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].updatedAt > entries[j].updatedAt
	})

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		var room models.Room
		if err := json.Unmarshal(entry.doc, &room); err != nil {
			return nil, fmt.Errorf("failed to decode room document: %w", err)
		}
		records = append(records, Record{Room: &room, UpdatedAt: time.Unix(0, entry.updatedAt)})
	}
	return records, nil
}
