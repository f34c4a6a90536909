// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/nixgames/trivia-rooms/models"
)

// ErrNotFound is returned by Get and Revision for unknown room codes.
var ErrNotFound = errors.New("room not found")

// RoomStore is the adapter every client mutates rooms through: get and
// put by code, upsert semantics, full-document overwrite. Last writer
// wins; there is no version check or merge.
type RoomStore interface {
	Get(ctx context.Context, code string) (*models.Room, error)
	Put(ctx context.Context, room *models.Room) error
}

// Watchable extends RoomStore with a cheap change marker, used by the
// push channel to detect writes without deserializing the document.
type Watchable interface {
	RoomStore

	// Revision returns a value that changes on every Put of the room,
	// expressed as unix nanoseconds of the last write.
	Revision(ctx context.Context, code string) (int64, error)
}

// Record is one room plus its last-write time, for the admin listing.
type Record struct {
	Room      *models.Room
	UpdatedAt time.Time
}

// ServerStore is the full surface the HTTP server needs.
type ServerStore interface {
	Watchable

	// List returns every room ordered by most recent write first.
	List(ctx context.Context) ([]Record, error)
}
