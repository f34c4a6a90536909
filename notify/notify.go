// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/store"
)

// Default protocol timings. SilenceTimeout is how long a push channel
// may stay silent before the subscriber gives up on it; PollInterval is
// the pull-fallback cadence.
const (
	DefaultSilenceTimeout = 3 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
)

// Fetcher is the pull channel's view of the store: get-by-code only.
// store.RoomStore satisfies it.
type Fetcher interface {
	Get(ctx context.Context, code string) (*models.Room, error)
}

// Subscriber delivers room documents to callbacks with minimal
// latency. Each subscription runs exactly one channel at a time: the
// SSE push stream first, downgrading permanently to polling the store
// if the stream errors or stays silent. Payloads byte-identical to the
// last delivered document are suppressed.
type Subscriber struct {
	baseURL string
	client  *http.Client
	fetcher Fetcher

	// Overridable for tests; set before the first Subscribe call.
	SilenceTimeout time.Duration
	PollInterval   time.Duration
}

// NewSubscriber creates a subscriber against the server at baseURL,
// using fetcher as the pull fallback.
func NewSubscriber(baseURL string, fetcher Fetcher) *Subscriber {
	return &Subscriber{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// No client timeout: the push stream is long-lived.
		client:         &http.Client{},
		fetcher:        fetcher,
		SilenceTimeout: DefaultSilenceTimeout,
		PollInterval:   DefaultPollInterval,
	}
}

type subscription struct {
	code     string
	onUpdate func(*models.Room)
	onError  func(error)

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	last    []byte
	polling bool
}

// Subscribe starts delivering the room's document to onUpdate whenever
// it changes, beginning with the current document. onError is invoked
// when the push channel fails; delivery then continues over polling, so
// the error is informational. The returned unsubscribe function
// terminates whichever channel is active, is safe to call multiple
// times, and guarantees no callback invocation after it returns. Do not
// call it from within the callbacks themselves.
func (s *Subscriber) Subscribe(code string, onUpdate func(*models.Room), onError func(error)) (unsubscribe func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		code:     strings.ToUpper(strings.TrimSpace(code)),
		onUpdate: onUpdate,
		onError:  onError,
		ctx:      ctx,
		cancel:   cancel,
	}

	go s.runPush(sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.cancel()
			// Taking the lock joins any in-flight delivery, so no
			// callback runs after unsubscribe returns.
			sub.mu.Lock()
			sub.closed = true
			sub.mu.Unlock()
		})
	}
}

// deliver hands the document to onUpdate unless it is byte-identical
// to the last delivered payload or the subscription is closed.
func (sub *subscription) deliver(room *models.Room) {
	payload, err := room.Marshal()
	if err != nil {
		slog.Warn("failed to encode room update", "code", sub.code, "error", err)
		return
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	if bytes.Equal(sub.last, payload) {
		return
	}
	sub.last = payload
	sub.onUpdate(room)
}

// fail reports a push-channel error to onError, if still subscribed.
func (sub *subscription) fail(err error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed || sub.onError == nil {
		return
	}
	sub.onError(err)
}

// runPush opens the SSE stream and pumps events into the subscription.
// On any failure of the stream it downgrades to polling; the switch is
// one-directional for the subscription's lifetime.
func (s *Subscriber) runPush(sub *subscription) {
	req, err := http.NewRequestWithContext(sub.ctx, http.MethodGet,
		s.baseURL+"/rooms-stream/"+sub.code, nil)
	if err != nil {
		sub.fail(err)
		s.startPolling(sub)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		if sub.ctx.Err() == nil {
			sub.fail(err)
			s.startPolling(sub)
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		sub.fail(errStatus(resp.StatusCode))
		s.startPolling(sub)
		return
	}

	// A stream that connects but never speaks is indistinguishable from
	// a broken one; give up on it after the silence window. Closing the
	// body unblocks the scanner below.
	var received atomic.Bool
	silence := time.AfterFunc(s.SilenceTimeout, func() {
		if !received.Load() {
			resp.Body.Close()
		}
	})
	defer silence.Stop()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		received.Store(true)

		var event models.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &event); err != nil {
			slog.Warn("unparseable stream event", "code", sub.code, "error", err)
			continue
		}
		switch event.Type {
		case models.EventUpdate:
			if event.Room != nil {
				sub.deliver(event.Room)
			}
		case models.EventError:
			slog.Warn("stream reported error", "code", sub.code, "error", event.Error)
		}
	}

	if sub.ctx.Err() != nil {
		return // unsubscribed
	}
	if !received.Load() {
		slog.Info("push channel silent, falling back to polling", "code", sub.code)
	} else if err := scanner.Err(); err != nil {
		sub.fail(err)
	}
	s.startPolling(sub)
}

// startPolling begins the pull fallback. Idempotent per subscription;
// once polling, the subscription never returns to push.
func (s *Subscriber) startPolling(sub *subscription) {
	sub.mu.Lock()
	if sub.closed || sub.polling {
		sub.mu.Unlock()
		return
	}
	sub.polling = true
	sub.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.PollInterval)
		defer ticker.Stop()

		s.pollOnce(sub)
		for {
			select {
			case <-sub.ctx.Done():
				return
			case <-ticker.C:
				s.pollOnce(sub)
			}
		}
	}()
}

func (s *Subscriber) pollOnce(sub *subscription) {
	room, err := s.fetcher.Get(sub.ctx, sub.code)
	if err != nil {
		// Sync failures degrade, they never block: clients keep their
		// last-known-good state until the store answers again.
		if sub.ctx.Err() == nil && err != store.ErrNotFound {
			slog.Warn("room poll failed", "code", sub.code, "error", err)
		}
		return
	}
	sub.deliver(room)
}

type errStatus int

func (e errStatus) Error() string { return "stream returned status " + http.StatusText(int(e)) }
