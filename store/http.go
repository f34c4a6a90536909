// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nixgames/trivia-rooms/models"
)

// HTTPStore is the client-side adapter: it reads and writes room
// documents through the server's /rooms API instead of a database.
// Controllers running in a remote process use it together with the
// notify subscriber.
type HTTPStore struct {
	baseURL string
	hostKey string
	client  *http.Client
}

// NewHTTPStore creates a store client for the given server base URL.
// hostKey may be empty for player clients; host clients pass the key
// returned by room creation so phase-changing writes are accepted.
func NewHTTPStore(baseURL, hostKey string) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		hostKey: hostKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Get fetches the room document by code.
func (s *HTTPStore) Get(ctx context.Context, code string) (*models.Room, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/rooms/"+normalizeCode(code), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch room: unexpected status %d", resp.StatusCode)
	}

	var room models.Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to decode room document: %w", err)
	}
	return &room, nil
}

// Put replaces the whole room document on the server.
func (s *HTTPStore) Put(ctx context.Context, room *models.Room) error {
	doc, err := room.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode room document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		s.baseURL+"/rooms/"+normalizeCode(room.Code), bytes.NewReader(doc))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.hostKey != "" {
		req.Header.Set("X-Host-Key", s.hostKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to store room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store room: unexpected status %d", resp.StatusCode)
	}
	return nil
}
