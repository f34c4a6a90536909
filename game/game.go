// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nixgames/trivia-rooms/models"
)

var (
	ErrInvalidConfig = errors.New("invalid room configuration")
	ErrWrongPhase    = errors.New("operation not allowed in current phase")
	ErrUnknownPlayer = errors.New("player not in room")
	ErrTimeExpired   = errors.New("answer submitted after time expired")
	ErrHostOnly      = errors.New("operation requires the host capability")
	ErrNoQuestions   = errors.New("room has no questions")
)

// Role is the capability a caller presents to a mutating operation.
// Which client holds RoleHost is policy decided by the caller (the HTTP
// boundary hands out host keys at room creation); the state machine
// only checks the capability it is given.
type Role int

const (
	RolePlayer Role = iota
	RoleHost
)

// NewRoom creates a room in the lobby phase with the host as its first
// player. Configuration outside the allowed bounds fails with
// ErrInvalidConfig.
func NewRoom(req models.CreateRoomRequest, code, hostID string) (*models.Room, error) {
	if req.HostName == "" {
		return nil, fmt.Errorf("%w: host name is required", ErrInvalidConfig)
	}
	if !req.GameMode.Valid() {
		return nil, fmt.Errorf("%w: unknown game mode %q", ErrInvalidConfig, req.GameMode)
	}
	if !req.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, req.Difficulty)
	}
	if req.QuestionCount < models.MinQuestionCount || req.QuestionCount > models.MaxQuestionCount {
		return nil, fmt.Errorf("%w: question count must be between %d and %d",
			ErrInvalidConfig, models.MinQuestionCount, models.MaxQuestionCount)
	}
	if req.TimePerQuestion <= 0 {
		return nil, fmt.Errorf("%w: time per question must be positive", ErrInvalidConfig)
	}

	aiModel := req.AIModel
	if aiModel == "" {
		aiModel = models.DefaultAIModel
	}

	return &models.Room{
		Code:            strings.ToUpper(code),
		HostName:        req.HostName,
		GameMode:        req.GameMode,
		Theme:           req.Theme,
		AIModel:         aiModel,
		Difficulty:      req.Difficulty,
		QuestionCount:   req.QuestionCount,
		TimePerQuestion: req.TimePerQuestion,
		Players: []models.Player{
			{ID: hostID, Name: req.HostName, Score: 0},
		},
		Questions:    []models.Question{},
		CurrentIndex: 0,
		Status:       models.StatusLobby,
		Responses:    map[string]models.Response{},
		LastGain:     map[string]int{},
	}, nil
}

// Join appends a player with score zero. Joins outside the lobby are
// accepted but inert: the newcomer takes part from the next lobby on.
// Every call appends; duplicate submissions are not deduplicated here.
func Join(room *models.Room, player models.Player) {
	player.Score = 0
	room.Players = append(room.Players, player)
}

// BeginGeneration moves the room into the generating phase so every
// client shows a loading affordance while questions are fetched. The
// caller must guarantee the async path always resolves via
// InstallQuestions; there is no error state to park in.
func BeginGeneration(room *models.Room, role Role) error {
	if role != RoleHost {
		return ErrHostOnly
	}
	if room.Status != models.StatusLobby && room.Status != models.StatusFinal {
		return fmt.Errorf("%w: start from %q", ErrWrongPhase, room.Status)
	}
	room.Status = models.StatusGenerating
	return nil
}

// InstallQuestions completes generation: the question list becomes
// fixed, play starts at the first question, and per-round state is
// cleared.
func InstallQuestions(room *models.Room, questions []models.Question, generatedTheme string) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	room.Questions = questions
	room.GeneratedTheme = generatedTheme
	room.CurrentIndex = 0
	room.Status = models.StatusQuestion
	room.Responses = map[string]models.Response{}
	room.LastGain = map[string]int{}
	return nil
}

// SubmitAnswer upserts the player's response to the current question.
// Resubmission before time expires silently overwrites the earlier
// choice: the last answer counts. In personality mode the choice index
// is also resolved to the player being voted for.
func SubmitAnswer(room *models.Room, playerID string, answerIndex int, remaining float64) error {
	if room.Status != models.StatusQuestion {
		return fmt.Errorf("%w: submit during %q", ErrWrongPhase, room.Status)
	}
	if remaining <= 0 {
		return ErrTimeExpired
	}
	if room.PlayerByID(playerID) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	q := room.CurrentQuestion()
	if q == nil {
		return ErrNoQuestions
	}
	if answerIndex < 0 || answerIndex >= len(q.Choices) {
		return fmt.Errorf("answer index %d out of range for %d choices", answerIndex, len(q.Choices))
	}

	resp := models.Response{AnswerIndex: answerIndex, Remaining: remaining}
	if room.GameMode == models.ModePersonality && answerIndex < len(room.Players) {
		resp.VotedFor = room.Players[answerIndex].ID
	}
	if room.Responses == nil {
		room.Responses = map[string]models.Response{}
	}
	room.Responses[playerID] = resp
	return nil
}

// EndQuestion scores the current round and advances the phase: results
// for a mid-game question, final for the last one. Every player gets a
// lastGain entry; players without a response gain zero.
func EndQuestion(room *models.Room) error {
	if room.Status != models.StatusQuestion {
		return fmt.Errorf("%w: end question during %q", ErrWrongPhase, room.Status)
	}
	q := room.CurrentQuestion()
	if q == nil {
		return ErrNoQuestions
	}

	winners := map[string]bool{}
	if room.GameMode == models.ModePersonality {
		winners = pluralityWinners(room)
	}

	lastGain := make(map[string]int, len(room.Players))
	for i := range room.Players {
		p := &room.Players[i]
		resp, answered := room.Responses[p.ID]

		correct := false
		if answered {
			if room.GameMode == models.ModePersonality {
				correct = winners[resp.VotedFor]
			} else {
				correct = resp.AnswerIndex == q.CorrectIndex
			}
		}

		gain := 0
		if correct {
			gain = models.DifficultyPoints[room.Difficulty] + speedBonus(resp.Remaining)
		}
		lastGain[p.ID] = gain
		p.Score += gain
	}
	room.LastGain = lastGain

	if room.CurrentIndex >= len(room.Questions)-1 {
		room.Status = models.StatusFinal
	} else {
		room.Status = models.StatusResults
	}
	return nil
}

// NextQuestion advances to the next round, clearing responses. Past the
// last question it forces the final phase instead.
func NextQuestion(room *models.Room, role Role) error {
	if role != RoleHost {
		return ErrHostOnly
	}
	if room.Status != models.StatusResults {
		return fmt.Errorf("%w: advance from %q", ErrWrongPhase, room.Status)
	}
	next := room.CurrentIndex + 1
	if next >= len(room.Questions) {
		room.Status = models.StatusFinal
		return nil
	}
	room.CurrentIndex = next
	room.Status = models.StatusQuestion
	room.Responses = map[string]models.Response{}
	return nil
}

// ResetScores returns a finished room to the lobby for another game.
// Questions and per-round state are cleared; player scores are zeroed
// only when resetPoints is set, so a group can keep a running total
// across games.
func ResetScores(room *models.Room, role Role, resetPoints bool) error {
	if role != RoleHost {
		return ErrHostOnly
	}
	if room.Status != models.StatusFinal {
		return fmt.Errorf("%w: reset from %q", ErrWrongPhase, room.Status)
	}
	if resetPoints {
		for i := range room.Players {
			room.Players[i].Score = 0
		}
	}
	room.CurrentIndex = 0
	room.Questions = []models.Question{}
	room.Status = models.StatusLobby
	room.Responses = map[string]models.Response{}
	room.LastGain = map[string]int{}
	room.GeneratedTheme = ""
	return nil
}

// speedBonus converts the seconds left at submission time into bonus
// points. Never negative.
func speedBonus(remaining float64) int {
	bonus := int(math.Round(remaining))
	if bonus < 0 {
		return 0
	}
	return bonus
}

// pluralityWinners returns the set of player IDs with the most votes in
// the current personality round. A tie puts every tied player in the
// set, so all of their voters score.
func pluralityWinners(room *models.Room) map[string]bool {
	counts := map[string]int{}
	for _, resp := range room.Responses {
		if resp.VotedFor != "" {
			counts[resp.VotedFor]++
		}
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	winners := map[string]bool{}
	if max == 0 {
		return winners
	}
	for id, n := range counts {
		if n == max {
			winners[id] = true
		}
	}
	return winners
}
