// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nixgames/trivia-rooms/cliparse"
	"github.com/nixgames/trivia-rooms/questions"
	"github.com/nixgames/trivia-rooms/router"
	"github.com/nixgames/trivia-rooms/store"
)

func main() {
	var err error

	// Local .env is optional
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the room store
	st, err := store.OpenSQL(cfg)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Room store ready", "type", cfg.DatabaseType)

	// Question generator (falls back to built-in banks without a key)
	gen := questions.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	if cfg.OpenAIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, serving fallback question banks only")
	}

	// Create router
	handler := router.NewRouter(st, gen, cfg)

	// Create server
	server := http.Server{
		Handler: handler,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
