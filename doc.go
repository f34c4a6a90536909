// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the trivia-rooms API server.

trivia-rooms is a party trivia service: a host creates a room with a
five-character share code, players join from their own devices, and
every client renders the same replicated room document as the game
moves through its phases (lobby, generating, question, results, final).

# Starting the Server

The server reads environment variables (a local .env is honored) or
CLI flags:

	HOST_KEY_SALT=secret go run .

Or with flags:

	go run . -p 3420 --host-salt secret --openai-key sk-...

# Configuration

Required settings:

  - HOST_KEY_SALT (--host-salt): Secret for host key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3420)
  - DATABASE_TYPE (-t): sqlite, postgres, or mysql (default: sqlite)
  - DATABASE_URL (-d): Connection string for postgres/mysql
  - DB_PATH (--db-path): SQLite file path (default: ./rooms.db)
  - OPENAI_API_KEY (--openai-key): Enables AI question generation;
    without it the built-in fallback banks are served
  - OPENAI_BASE_URL: Alternate chat-completions endpoint

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (rooms, stream, questions)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: The room document and wire types
  - game: The room state machine and scoring rules
  - store: Persistence (SQLite/Postgres/MySQL, in-memory, HTTP client)
  - questions: AI question generation with fallback banks
  - notify: Client-side change notifier (SSE with polling fallback)
  - controller: Client-side room controller built on store and notify
  - auth: Room codes, player IDs, host and admin keys
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
