// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nixgames/trivia-rooms/auth"
	"github.com/nixgames/trivia-rooms/game"
	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/notify"
	"github.com/nixgames/trivia-rooms/questions"
	"github.com/nixgames/trivia-rooms/store"
)

// ErrNoRoom is returned by operations invoked before the controller
// has created or joined a room.
var ErrNoRoom = errors.New("no active room")

// Controller orchestrates one client's view of a room: it applies
// local mutations optimistically, persists them through the store
// adapter, and replaces its copy wholesale whenever the notifier
// delivers a remote update. The host controller additionally owns the
// authoritative countdown: when its local timer reaches zero it ends
// the round and persists the scores.
type Controller struct {
	store    store.RoomStore
	gen      questions.Generator
	notifier *notify.Subscriber
	role     game.Role

	mu            sync.Mutex
	room          *models.Room
	playerID      string
	timeLeft      int
	countdownStop chan struct{}
	unsubscribe   func()
	onChange      func(*models.Room)
	closed        bool

	wg   sync.WaitGroup
	tick time.Duration
}

// NewHost creates the host-side controller. gen supplies questions
// when the host starts the game.
func NewHost(st store.RoomStore, gen questions.Generator, notifier *notify.Subscriber) *Controller {
	return &Controller{store: st, gen: gen, notifier: notifier, role: game.RoleHost, tick: time.Second}
}

// NewPlayer creates a player-side controller.
func NewPlayer(st store.RoomStore, notifier *notify.Subscriber) *Controller {
	return &Controller{store: st, notifier: notifier, role: game.RolePlayer, tick: time.Second}
}

// SetOnChange registers a hook invoked with a copy of the room after
// every local or remote document change. Intended for rendering.
func (c *Controller) SetOnChange(fn func(*models.Room)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Room returns a copy of the controller's current room document, or
// nil before create/join.
func (c *Controller) Room() *models.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room.Clone()
}

// TimeLeft returns the seconds remaining on the local countdown.
func (c *Controller) TimeLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLeft
}

// PlayerID returns this client's session player ID.
func (c *Controller) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// CreateRoom creates a fresh room in the lobby with this client as
// host, persists it, and begins watching for remote updates. The room
// is kept locally even if the initial persist fails; the error is
// surfaced so the host can retry sharing the code.
func (c *Controller) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.Room, error) {
	if c.role != game.RoleHost {
		return nil, game.ErrHostOnly
	}

	code, err := auth.GenerateRoomCode()
	if err != nil {
		return nil, err
	}
	hostID := auth.GeneratePlayerID("host")

	room, err := game.NewRoom(req, code, hostID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.playerID = hostID
	c.mu.Unlock()
	c.apply(room)

	putErr := c.store.Put(ctx, room)
	c.watch(room.Code)
	if putErr != nil {
		return room.Clone(), putErr
	}
	return room.Clone(), nil
}

// JoinRoom fetches the room by code, appends this client as a player,
// persists the result, and begins watching for remote updates.
func (c *Controller) JoinRoom(ctx context.Context, code, name string) (*models.Room, error) {
	room, err := c.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	player := models.Player{ID: auth.GeneratePlayerID("player"), Name: name}
	game.Join(room, player)

	c.mu.Lock()
	c.playerID = player.ID
	c.mu.Unlock()
	c.apply(room)

	c.persist(ctx, room)
	c.watch(room.Code)
	return room.Clone(), nil
}

// StartGame moves the room into the generating phase immediately so
// every client shows the loading state, then fetches questions in the
// background and installs them. The async path always resolves: if the
// generator fails, the fallback bank is installed instead.
func (c *Controller) StartGame(ctx context.Context) error {
	if err := c.mutate(ctx, func(r *models.Room) error {
		return game.BeginGeneration(r, c.role)
	}); err != nil {
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.generateAndInstall()
	}()
	return nil
}

func (c *Controller) generateAndInstall() {
	c.mu.Lock()
	snapshot := c.room.Clone()
	c.mu.Unlock()
	if snapshot == nil {
		return
	}

	names := make([]string, len(snapshot.Players))
	for i, p := range snapshot.Players {
		names[i] = p.Name
	}
	req := models.GenerateQuestionsRequest{
		Theme:               snapshot.Theme,
		Difficulty:          snapshot.Difficulty,
		Count:               snapshot.QuestionCount,
		AIModel:             snapshot.AIModel,
		GameMode:            snapshot.GameMode,
		PlayerNames:         names,
		ShouldGenerateTheme: snapshot.GameMode == models.ModeCustom && snapshot.Theme == "",
	}

	ctx := context.Background()
	resp, err := c.gen.Generate(ctx, req)
	if err != nil || resp == nil || len(resp.Questions) == 0 {
		slog.Warn("question generation failed, installing fallback bank",
			"code", snapshot.Code, "error", err)
		resp = &models.GenerateQuestionsResponse{
			Questions: questions.FallbackQuestions(snapshot.GameMode, snapshot.QuestionCount, names),
		}
	}

	if err := c.mutate(ctx, func(r *models.Room) error {
		return game.InstallQuestions(r, resp.Questions, resp.GeneratedTheme)
	}); err != nil {
		slog.Warn("failed to install questions", "code", snapshot.Code, "error", err)
	}
}

// SubmitAnswer records this player's answer to the current question
// with the local countdown's remaining seconds as the speed-bonus
// input. Resubmitting overwrites the previous choice.
func (c *Controller) SubmitAnswer(ctx context.Context, choiceIndex int) error {
	c.mu.Lock()
	timeLeft := c.timeLeft
	playerID := c.playerID
	c.mu.Unlock()

	if timeLeft <= 0 {
		return game.ErrTimeExpired
	}
	return c.mutate(ctx, func(r *models.Room) error {
		return game.SubmitAnswer(r, playerID, choiceIndex, float64(timeLeft))
	})
}

// NextQuestion advances a room in the results phase to the next round.
func (c *Controller) NextQuestion(ctx context.Context) error {
	return c.mutate(ctx, func(r *models.Room) error {
		return game.NextQuestion(r, c.role)
	})
}

// ResetScores returns a finished room to the lobby, optionally zeroing
// every player's score.
func (c *Controller) ResetScores(ctx context.Context, resetPoints bool) error {
	return c.mutate(ctx, func(r *models.Room) error {
		return game.ResetScores(r, c.role, resetPoints)
	})
}

// Close tears down the controller: countdown stopped, subscription
// terminated, background work joined. Safe to call multiple times.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsub := c.unsubscribe
	if c.countdownStop != nil {
		close(c.countdownStop)
		c.countdownStop = nil
	}
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	c.wg.Wait()
}

// mutate clones the current room, applies fn, installs the result
// locally, and persists it best-effort. The optimistic local copy is
// the client's view even when the remote write fails.
func (c *Controller) mutate(ctx context.Context, fn func(*models.Room) error) error {
	c.mu.Lock()
	if c.room == nil {
		c.mu.Unlock()
		return ErrNoRoom
	}
	doc := c.room.Clone()
	c.mu.Unlock()

	if err := fn(doc); err != nil {
		return err
	}
	c.apply(doc)
	c.persist(ctx, doc)
	return nil
}

func (c *Controller) persist(ctx context.Context, doc *models.Room) {
	if err := c.store.Put(ctx, doc); err != nil {
		// Known consistency gap: the remote write failed but the local
		// optimistic state stays in place. Other clients keep their
		// last-known-good document.
		slog.Warn("room persist failed, keeping local state", "code", doc.Code, "error", err)
	}
}

// apply installs doc as the current room and reacts to phase edges:
// entering the question phase (or a new question index) restarts the
// countdown, leaving it stops the countdown. Used for both optimistic
// local updates and notifier deliveries; the document is replaced
// wholesale either way.
func (c *Controller) apply(doc *models.Room) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	prev := c.room
	c.room = doc

	enteredQuestion := doc.Status == models.StatusQuestion &&
		(prev == nil || prev.Status != models.StatusQuestion || prev.CurrentIndex != doc.CurrentIndex)

	var stop chan struct{}
	if enteredQuestion {
		if c.countdownStop != nil {
			close(c.countdownStop)
		}
		stop = make(chan struct{})
		c.countdownStop = stop
		c.timeLeft = doc.TimePerQuestion
	} else if doc.Status != models.StatusQuestion && c.countdownStop != nil {
		close(c.countdownStop)
		c.countdownStop = nil
	}
	onChange := c.onChange
	c.mu.Unlock()

	if enteredQuestion {
		c.wg.Add(1)
		go c.runCountdown(stop)
	}
	if onChange != nil {
		onChange(doc.Clone())
	}
}

// runCountdown ticks the local timer down once per second. At zero the
// host controller, and only the host controller, ends the question and
// persists the scored result.
func (c *Controller) runCountdown(stop chan struct{}) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed || c.countdownStop != stop {
				c.mu.Unlock()
				return
			}
			c.timeLeft--
			expired := c.timeLeft <= 0
			if expired {
				c.timeLeft = 0
				c.countdownStop = nil
			}
			c.mu.Unlock()

			if expired {
				if c.role == game.RoleHost {
					if err := c.mutate(context.Background(), game.EndQuestion); err != nil {
						slog.Warn("failed to end question", "error", err)
					}
				}
				return
			}
		}
	}
}

// watch subscribes to remote updates for the room. Remote documents
// replace the local copy unconditionally; sync errors degrade to the
// notifier's polling fallback and are only logged.
func (c *Controller) watch(code string) {
	if c.notifier == nil {
		return
	}
	unsub := c.notifier.Subscribe(code,
		func(room *models.Room) { c.apply(room) },
		func(err error) { slog.Warn("push channel degraded", "code", code, "error", err) },
	)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		unsub()
		return
	}
	c.unsubscribe = unsub
	c.mu.Unlock()
}
