// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nixgames/trivia-rooms/game"
	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/questions"
	"github.com/nixgames/trivia-rooms/testutil"
)

// TestFullGameWorkflow tests the complete end-to-end flow:
// 1. Host creates a room
// 2. Two players join
// 3. Host starts the game (generating phase)
// 4. Questions are generated and installed
// 5. Players answer; the host ends the round
// 6. Rounds advance until the final standings
// 7. The room resets to the lobby keeping scores
func TestFullGameWorkflow(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	roomHandler := NewRoomHandler(st, cfg)
	questionsHandler := NewQuestionsHandler(questions.Static{Questions: testutil.MakeTestQuestions(2)})

	ctx := context.Background()

	// Step 1: Create a room
	req := testutil.MakeRequest("POST", "/rooms", models.CreateRoomRequest{
		HostName:        "Alice",
		GameMode:        models.ModeStandard,
		Theme:           "History",
		Difficulty:      models.DifficultyMedium,
		QuestionCount:   2,
		TimePerQuestion: 20,
	}, nil)
	w := httptest.NewRecorder()
	roomHandler.CreateRoom(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create room failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &createResp)
	code := createResp.Room.Code
	hostKey := createResp.HostKey
	hostID := createResp.Room.Players[0].ID

	// putDoc replays a client saving its whole document
	putDoc := func(t *testing.T, room *models.Room, withKey bool, wantStatus int) {
		t.Helper()
		headers := map[string]string{}
		if withKey {
			headers["X-Host-Key"] = hostKey
		}
		req := testutil.MakeRequest("PUT", "/rooms/"+code, room, headers)
		req.SetPathValue("code", code)
		w := httptest.NewRecorder()
		roomHandler.PutRoom(w, req)
		if w.Code != wantStatus {
			t.Fatalf("PUT status = %d, want %d: %s", w.Code, wantStatus, w.Body.String())
		}
	}

	// Step 2: Two players join
	playerIDs := []string{}
	for _, name := range []string{"Bob", "Carol"} {
		req := testutil.MakeRequest("POST", "/rooms/"+code+"/join", models.JoinRoomRequest{Name: name}, nil)
		req.SetPathValue("code", code)
		w := httptest.NewRecorder()
		roomHandler.JoinRoom(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Step 2 - Join %s failed: %d", name, w.Code)
		}
		var joinResp models.JoinRoomResponse
		testutil.AssertJSON(t, w, &joinResp)
		playerIDs = append(playerIDs, joinResp.Player.ID)
	}

	// Step 3: Host starts the game
	room, err := st.Get(ctx, code)
	if err != nil {
		t.Fatalf("Step 3 - fetch failed: %v", err)
	}
	if len(room.Players) != 3 {
		t.Fatalf("Step 3 - player count = %d, want 3", len(room.Players))
	}
	if err := game.BeginGeneration(room, game.RoleHost); err != nil {
		t.Fatalf("Step 3 - BeginGeneration failed: %v", err)
	}
	putDoc(t, room, true, http.StatusOK)

	// Step 4: Generate and install the questions
	req = testutil.MakeRequest("POST", "/generate-questions", models.GenerateQuestionsRequest{
		Theme:      room.Theme,
		Difficulty: room.Difficulty,
		Count:      room.QuestionCount,
		GameMode:   room.GameMode,
	}, nil)
	w = httptest.NewRecorder()
	questionsHandler.GenerateQuestions(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Generate failed: %d", w.Code)
	}
	var genResp models.GenerateQuestionsResponse
	testutil.AssertJSON(t, w, &genResp)

	if err := game.InstallQuestions(room, genResp.Questions, genResp.GeneratedTheme); err != nil {
		t.Fatalf("Step 4 - InstallQuestions failed: %v", err)
	}
	putDoc(t, room, true, http.StatusOK)

	// Step 5: Both players answer; answers save without the host key
	room, _ = st.Get(ctx, code)
	if err := game.SubmitAnswer(room, playerIDs[0], 0, 7.2); err != nil {
		t.Fatalf("Step 5 - Bob's answer failed: %v", err)
	}
	if err := game.SubmitAnswer(room, playerIDs[1], 2, 3.9); err != nil {
		t.Fatalf("Step 5 - Carol's answer failed: %v", err)
	}
	putDoc(t, room, false, http.StatusOK)

	// The host ends the round
	room, _ = st.Get(ctx, code)
	if err := game.EndQuestion(room); err != nil {
		t.Fatalf("Step 5 - EndQuestion failed: %v", err)
	}
	putDoc(t, room, true, http.StatusOK)

	if room.PlayerByID(playerIDs[0]).Score != 20+7 {
		t.Errorf("Step 5 - Bob's score = %d, want 27", room.PlayerByID(playerIDs[0]).Score)
	}
	if room.PlayerByID(playerIDs[1]).Score != 0 {
		t.Errorf("Step 5 - Carol's score = %d, want 0", room.PlayerByID(playerIDs[1]).Score)
	}

	// Step 6: Advance to the last question and finish the game
	room, _ = st.Get(ctx, code)
	if err := game.NextQuestion(room, game.RoleHost); err != nil {
		t.Fatalf("Step 6 - NextQuestion failed: %v", err)
	}
	putDoc(t, room, true, http.StatusOK)

	room, _ = st.Get(ctx, code)
	game.SubmitAnswer(room, playerIDs[1], 0, 10)
	putDoc(t, room, false, http.StatusOK)

	room, _ = st.Get(ctx, code)
	if err := game.EndQuestion(room); err != nil {
		t.Fatalf("Step 6 - EndQuestion failed: %v", err)
	}
	if room.Status != models.StatusFinal {
		t.Fatalf("Step 6 - Status = %q, want final", room.Status)
	}
	putDoc(t, room, true, http.StatusOK)

	// Step 7: Back to the lobby, keeping the running total
	room, _ = st.Get(ctx, code)
	carolScore := room.PlayerByID(playerIDs[1]).Score
	if err := game.ResetScores(room, game.RoleHost, false); err != nil {
		t.Fatalf("Step 7 - ResetScores failed: %v", err)
	}
	putDoc(t, room, true, http.StatusOK)

	final, _ := st.Get(ctx, code)
	if final.Status != models.StatusLobby {
		t.Errorf("Step 7 - Status = %q, want lobby", final.Status)
	}
	if len(final.Questions) != 0 {
		t.Errorf("Step 7 - questions survived the reset")
	}
	if final.PlayerByID(playerIDs[1]).Score != carolScore {
		t.Errorf("Step 7 - Carol's score = %d, want kept at %d", final.PlayerByID(playerIDs[1]).Score, carolScore)
	}
	if final.PlayerByID(hostID) == nil {
		t.Error("Step 7 - host missing after reset")
	}
}
