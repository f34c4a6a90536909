// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/store"
	"github.com/nixgames/trivia-rooms/testutil"
)

// runStream serves one stream request against the handler, applies
// mutate while the stream is live, and returns the decoded events.
func runStream(t *testing.T, h *StreamHandler, code string, mutate func()) []models.StreamEvent {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req := testutil.MakeRequest("GET", "/rooms-stream/"+code, nil, nil).WithContext(ctx)
	req.SetPathValue("code", code)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.StreamRoom(w, req)
	}()

	// Let the stream settle, poke the store, let the change propagate
	time.Sleep(5 * h.CheckInterval)
	if mutate != nil {
		mutate()
		time.Sleep(5 * h.CheckInterval)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not terminate on context cancel")
	}

	return parseEvents(t, w.Body.String())
}

func parseEvents(t *testing.T, body string) []models.StreamEvent {
	t.Helper()

	var events []models.StreamEvent
	for _, frame := range strings.Split(body, "\n\n") {
		frame = strings.TrimSpace(frame)
		if !strings.HasPrefix(frame, "data:") {
			continue
		}
		var event models.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(frame, "data:"))), &event); err != nil {
			t.Fatalf("unparseable frame %q: %v", frame, err)
		}
		events = append(events, event)
	}
	return events
}

func fastStreamHandler(st store.Watchable) *StreamHandler {
	h := NewStreamHandler(st)
	h.CheckInterval = 10 * time.Millisecond
	return h
}

func TestStreamRoom(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := fastStreamHandler(st)

	room, _ := testutil.CreateTestRoom(t, st, cfg, "ABCDE", models.StatusLobby)

	events := runStream(t, h, "ABCDE", func() {
		room.Status = models.StatusGenerating
		if err := st.Put(context.Background(), room); err != nil {
			t.Errorf("Put() error = %v", err)
		}
	})

	if len(events) < 3 {
		t.Fatalf("got %d events, want connected + 2 updates: %+v", len(events), events)
	}
	if events[0].Type != models.EventConnected {
		t.Errorf("events[0].Type = %q, want connected", events[0].Type)
	}
	if events[1].Type != models.EventUpdate || events[1].Room == nil {
		t.Fatalf("events[1] = %+v, want initial document update", events[1])
	}
	if events[1].Room.Status != models.StatusLobby {
		t.Errorf("initial document status = %q, want lobby", events[1].Room.Status)
	}
	last := events[len(events)-1]
	if last.Type != models.EventUpdate || last.Room == nil || last.Room.Status != models.StatusGenerating {
		t.Errorf("last event = %+v, want the changed document", last)
	}
}

func TestStreamSuppressesIdenticalDocuments(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := fastStreamHandler(st)

	room, _ := testutil.CreateTestRoom(t, st, cfg, "ABCDE", models.StatusLobby)

	events := runStream(t, h, "ABCDE", func() {
		// Rewriting the same document moves the revision marker but
		// must not produce another update frame
		if err := st.Put(context.Background(), room); err != nil {
			t.Errorf("Put() error = %v", err)
		}
	})

	updates := 0
	for _, e := range events {
		if e.Type == models.EventUpdate {
			updates++
		}
	}
	if updates != 1 {
		t.Errorf("got %d update events, want 1 (identical document suppressed)", updates)
	}
}

func TestStreamUnknownRoomConnectsQuietly(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := fastStreamHandler(st)

	events := runStream(t, h, "ZZZZZ", nil)

	if len(events) != 1 || events[0].Type != models.EventConnected {
		t.Errorf("events = %+v, want only the connected frame", events)
	}
}

func TestStreamPicksUpLateRoom(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := fastStreamHandler(st)

	events := runStream(t, h, "ABCDE", func() {
		// The room appears after the stream is already open
		if err := st.Put(context.Background(), testutil.MakeTestRoom("ABCDE")); err != nil {
			t.Errorf("Put() error = %v", err)
		}
	})

	var sawUpdate bool
	for _, e := range events {
		if e.Type == models.EventUpdate {
			sawUpdate = true
		}
	}
	if !sawUpdate {
		t.Errorf("events = %+v, want an update once the room exists", events)
	}
}

func TestStreamRequiresCode(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewStreamHandler(st)

	req := testutil.MakeRequest("GET", "/rooms-stream/", nil, nil)
	w := httptest.NewRecorder()

	h.StreamRoom(w, req)
	testutil.AssertStatus(t, w, 400)
}
