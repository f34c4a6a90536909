// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/nixgames/trivia-rooms/cliparse"
	"github.com/nixgames/trivia-rooms/handlers"
	"github.com/nixgames/trivia-rooms/middleware"
	"github.com/nixgames/trivia-rooms/questions"
	"github.com/nixgames/trivia-rooms/store"
)

func NewRouter(st store.ServerStore, gen questions.Generator, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(st, cfg)
	streamHandler := handlers.NewStreamHandler(st)
	questionsHandler := handlers.NewQuestionsHandler(gen)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Room documents
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms", middleware.WithLogging(roomHandler.ListRooms))
	mux.HandleFunc("GET /rooms/{code}", middleware.WithLogging(roomHandler.GetRoom))
	mux.HandleFunc("PUT /rooms/{code}", middleware.WithLogging(roomHandler.PutRoom))
	mux.HandleFunc("POST /rooms/{code}/join", middleware.WithLogging(roomHandler.JoinRoom))

	// Push channel (no logging wrapper, streams stay open for minutes)
	mux.HandleFunc("GET /rooms-stream/{code}", streamHandler.StreamRoom)

	// Question generation
	mux.HandleFunc("POST /generate-questions", middleware.WithLogging(questionsHandler.GenerateQuestions))
	mux.HandleFunc("GET /catalog", middleware.WithLogging(questionsHandler.GetCatalog))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("trivia-rooms API v1"))
	})

	return middleware.CORS(mux)
}
