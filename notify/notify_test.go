// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/store"
)

func notifyRoom(code, status string) *models.Room {
	return &models.Room{
		Code:            code,
		HostName:        "Alice",
		GameMode:        models.ModeStandard,
		Theme:           "History",
		AIModel:         models.DefaultAIModel,
		Difficulty:      models.DifficultyMedium,
		QuestionCount:   3,
		TimePerQuestion: 20,
		Players:         []models.Player{{ID: "host-1", Name: "Alice"}},
		Questions:       []models.Question{},
		Status:          status,
		Responses:       map[string]models.Response{},
		LastGain:        map[string]int{},
	}
}

// collector gathers delivered rooms safely across goroutines.
type collector struct {
	mu     sync.Mutex
	rooms  []*models.Room
	errors []error
}

func (c *collector) onUpdate(r *models.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms = append(c.rooms, r)
}

func (c *collector) onError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}

func (c *collector) errorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

func (c *collector) lastStatus() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.rooms) == 0 {
		return ""
	}
	return c.rooms[len(c.rooms)-1].Status
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

// sseServer streams the given payloads as update events, then blocks
// until the client goes away.
func sseServer(t *testing.T, rooms ...*models.Room) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")

		for _, room := range rooms {
			payload, _ := room.Marshal()
			fmt.Fprintf(w, "data: {\"type\":\"update\",\"room\":%s}\n\n", payload)
			flusher.Flush()
		}
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fastSubscriber(srvURL string, f Fetcher) *Subscriber {
	s := NewSubscriber(srvURL, f)
	s.SilenceTimeout = 200 * time.Millisecond
	s.PollInterval = 20 * time.Millisecond
	return s
}

func TestSubscribeDeliversPushUpdates(t *testing.T) {
	srv := sseServer(t, notifyRoom("ABCDE", models.StatusLobby), notifyRoom("ABCDE", models.StatusQuestion))
	s := fastSubscriber(srv.URL, store.NewMemoryStore())

	var c collector
	unsub := s.Subscribe("ABCDE", c.onUpdate, c.onError)
	defer unsub()

	if !waitFor(t, time.Second, func() bool { return c.count() >= 2 }) {
		t.Fatalf("got %d updates, want 2", c.count())
	}
	if c.lastStatus() != models.StatusQuestion {
		t.Errorf("last status = %q, want question", c.lastStatus())
	}
	if c.errorCount() != 0 {
		t.Errorf("got %d errors on healthy stream", c.errorCount())
	}
}

func TestSubscribeSuppressesIdenticalPayloads(t *testing.T) {
	same := notifyRoom("ABCDE", models.StatusLobby)
	srv := sseServer(t, same, same, same, notifyRoom("ABCDE", models.StatusQuestion))
	s := fastSubscriber(srv.URL, store.NewMemoryStore())

	var c collector
	unsub := s.Subscribe("ABCDE", c.onUpdate, c.onError)
	defer unsub()

	if !waitFor(t, time.Second, func() bool { return c.lastStatus() == models.StatusQuestion }) {
		t.Fatal("never saw the changed document")
	}
	// Three identical payloads collapse into one delivery
	if c.count() != 2 {
		t.Errorf("got %d deliveries, want 2 (identical payloads suppressed)", c.count())
	}
}

func TestConnectionErrorFallsBackToPolling(t *testing.T) {
	// Server that refuses the stream outright
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	st := store.NewMemoryStore()
	room := notifyRoom("ABCDE", models.StatusLobby)
	if err := st.Put(context.Background(), room); err != nil {
		t.Fatal(err)
	}

	s := fastSubscriber(srv.URL, st)

	var c collector
	unsub := s.Subscribe("ABCDE", c.onUpdate, c.onError)
	defer unsub()

	// The failure is reported and delivery continues over the store
	if !waitFor(t, time.Second, func() bool { return c.count() >= 1 }) {
		t.Fatal("polling fallback never delivered")
	}
	if c.errorCount() == 0 {
		t.Error("push failure was not reported to onError")
	}

	// A later store write reaches the subscriber through polling
	room.Status = models.StatusGenerating
	if err := st.Put(context.Background(), room); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, time.Second, func() bool { return c.lastStatus() == models.StatusGenerating }) {
		t.Error("store update never delivered over polling")
	}
}

func TestSilentStreamFallsBackToPolling(t *testing.T) {
	// Connects fine but never sends a single event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	st := store.NewMemoryStore()
	if err := st.Put(context.Background(), notifyRoom("ABCDE", models.StatusLobby)); err != nil {
		t.Fatal(err)
	}

	s := fastSubscriber(srv.URL, st)

	var c collector
	start := time.Now()
	unsub := s.Subscribe("ABCDE", c.onUpdate, c.onError)
	defer unsub()

	// Silence window plus one poll interval, with slack for CI
	if !waitFor(t, 2*time.Second, func() bool { return c.count() >= 1 }) {
		t.Fatal("silent stream never downgraded to polling")
	}
	if elapsed := time.Since(start); elapsed < s.SilenceTimeout {
		t.Errorf("fell back after %v, before the silence window %v", elapsed, s.SilenceTimeout)
	}
}

func TestUnsubscribe(t *testing.T) {
	srv := sseServer(t, notifyRoom("ABCDE", models.StatusLobby))

	st := store.NewMemoryStore()
	if err := st.Put(context.Background(), notifyRoom("ABCDE", models.StatusLobby)); err != nil {
		t.Fatal(err)
	}
	s := fastSubscriber(srv.URL, st)

	var c collector
	unsub := s.Subscribe("ABCDE", c.onUpdate, c.onError)

	waitFor(t, time.Second, func() bool { return c.count() >= 1 })

	unsub()
	// Idempotent
	unsub()

	seen := c.count()
	// Push a change that would be delivered if the subscription lived
	room := notifyRoom("ABCDE", models.StatusFinal)
	if err := st.Put(context.Background(), room); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)

	if got := c.count(); got != seen {
		t.Errorf("deliveries after unsubscribe: %d -> %d", seen, got)
	}
}

func TestPollingSwitchIsOneWay(t *testing.T) {
	// The stream ends after one event; the subscriber must move to
	// polling and stay there.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		payload, _ := notifyRoom("ABCDE", models.StatusLobby).Marshal()
		fmt.Fprintf(w, "data: {\"type\":\"update\",\"room\":%s}\n\n", payload)
		w.(http.Flusher).Flush()
		// Return, closing the stream
	}))
	t.Cleanup(srv.Close)

	st := store.NewMemoryStore()
	if err := st.Put(context.Background(), notifyRoom("ABCDE", models.StatusResults)); err != nil {
		t.Fatal(err)
	}

	s := fastSubscriber(srv.URL, st)

	var c collector
	unsub := s.Subscribe("ABCDE", c.onUpdate, c.onError)
	defer unsub()

	// First delivery from push, second from the store over polling
	if !waitFor(t, 2*time.Second, func() bool { return c.lastStatus() == models.StatusResults }) {
		t.Fatalf("never received the polled document, got %d deliveries", c.count())
	}
}
