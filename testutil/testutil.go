// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/nixgames/trivia-rooms/auth"
	"github.com/nixgames/trivia-rooms/cliparse"
	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/store"
)

// SetupTestStore creates a fresh in-memory SQLite-backed store.
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second connection to :memory: would see a different database
	db.SetMaxOpenConns(1)

	st, err := store.NewSQLStore(db, "sqlite")
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:        3420,
		HostKeySalt: "test-host-salt",
	}
}

// MakeTestRoom returns a lobby room document with a host player, ready
// to seed into a store.
func MakeTestRoom(code string) *models.Room {
	return &models.Room{
		Code:            code,
		HostName:        "TestHost",
		GameMode:        models.ModeStandard,
		Theme:           "General Knowledge",
		AIModel:         models.DefaultAIModel,
		Difficulty:      models.DifficultyMedium,
		QuestionCount:   3,
		TimePerQuestion: 20,
		Players: []models.Player{
			{ID: "host-1", Name: "TestHost", Score: 0},
		},
		Questions:    []models.Question{},
		CurrentIndex: 0,
		Status:       models.StatusLobby,
		Responses:    map[string]models.Response{},
		LastGain:     map[string]int{},
	}
}

// MakeTestQuestions returns n standard four-choice questions with the
// correct answer always at index 0.
func MakeTestQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			Question:     "Question?",
			Choices:      []string{"Right", "Wrong", "Wrong", "Wrong"},
			CorrectIndex: 0,
			Explanation:  "Because.",
		}
	}
	return qs
}

// CreateTestRoom seeds a room into the store and returns it alongside
// its host key. status should be one of the room status constants.
func CreateTestRoom(t *testing.T, st store.RoomStore, cfg cliparse.Config, code, status string) (*models.Room, string) {
	t.Helper()

	room := MakeTestRoom(code)
	room.Status = status
	if status == models.StatusQuestion || status == models.StatusResults || status == models.StatusFinal {
		room.Questions = MakeTestQuestions(room.QuestionCount)
	}

	if err := st.Put(context.Background(), room); err != nil {
		t.Fatalf("Failed to seed test room: %v", err)
	}

	return room, auth.GenerateHostKey(code, cfg.HostKeySalt)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
