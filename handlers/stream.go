// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nixgames/trivia-rooms/middleware"
	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/store"
)

// DefaultCheckInterval is how often the stream probes the store's
// change marker. Short enough to feel real-time, long enough to keep a
// room's streams from hammering the database.
const DefaultCheckInterval = 300 * time.Millisecond

// StreamHandler serves the push channel: one SSE stream per subscribed
// client, fed by polling the store's revision marker. No subscriber
// list is kept; a stream dies with its request.
type StreamHandler struct {
	store store.Watchable

	// CheckInterval overrides the probe cadence, for tests.
	CheckInterval time.Duration
}

func NewStreamHandler(st store.Watchable) *StreamHandler {
	return &StreamHandler{store: st, CheckInterval: DefaultCheckInterval}
}

// StreamRoom handles GET /rooms-stream/{code}. The stream opens with a
// "connected" event, then the current document, then one "update"
// event per observed change. Byte-identical documents are not re-sent.
func (h *StreamHandler) StreamRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeEvent(w, flusher, models.StreamEvent{Type: models.EventConnected})

	var lastRev int64
	var lastPayload []byte

	// Emit the current state immediately so new subscribers render
	// without waiting for the next change.
	if rev, err := h.store.Revision(r.Context(), code); err == nil {
		lastRev = rev
		lastPayload = h.emit(r, w, flusher, code, lastPayload)
	} else if err != store.ErrNotFound {
		slog.Warn("stream initial fetch failed", "code", code, "error", err)
		writeEvent(w, flusher, models.StreamEvent{Type: models.EventError, Error: "Database error"})
	}

	ticker := time.NewTicker(h.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			rev, err := h.store.Revision(r.Context(), code)
			if err == store.ErrNotFound {
				continue
			}
			if err != nil {
				if r.Context().Err() != nil {
					return
				}
				slog.Warn("stream revision check failed", "code", code, "error", err)
				writeEvent(w, flusher, models.StreamEvent{Type: models.EventError, Error: "Database error"})
				continue
			}
			if rev == lastRev {
				continue
			}
			lastRev = rev
			lastPayload = h.emit(r, w, flusher, code, lastPayload)
		}
	}
}

// emit fetches and sends the current document unless it serializes to
// exactly the last payload sent. Returns the payload now on the wire.
func (h *StreamHandler) emit(r *http.Request, w http.ResponseWriter, flusher http.Flusher, code string, lastPayload []byte) []byte {
	room, err := h.store.Get(r.Context(), code)
	if err != nil {
		if err != store.ErrNotFound {
			slog.Warn("stream fetch failed", "code", code, "error", err)
			writeEvent(w, flusher, models.StreamEvent{Type: models.EventError, Error: "Database error"})
		}
		return lastPayload
	}

	payload, err := room.Marshal()
	if err != nil {
		slog.Warn("stream encode failed", "code", code, "error", err)
		return lastPayload
	}
	if bytes.Equal(payload, lastPayload) {
		return lastPayload
	}

	writeEvent(w, flusher, models.StreamEvent{Type: models.EventUpdate, Room: room})
	return payload
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event models.StreamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode stream event", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
