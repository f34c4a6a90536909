// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the trivia-rooms API.

# Route Registration

NewRouter creates a configured handler with all endpoints and the CORS
wrapper applied:

	h := router.NewRouter(st, gen, cfg)

# Endpoints

Health:

	GET /health

Room documents:

	POST /rooms             - Create room (returns host key)
	GET  /rooms             - List rooms (operator, requires X-Admin-Key)
	GET  /rooms/{code}      - Fetch room document
	PUT  /rooms/{code}      - Replace room document (phase changes require X-Host-Key)
	POST /rooms/{code}/join - Add player

Push channel:

	GET /rooms-stream/{code} - SSE stream of document updates

Question generation:

	POST /generate-questions - Generate a question set
	GET  /catalog            - AI model and theme catalogs

# Handler Initialization

The router creates handler instances with dependency injection:

	roomHandler := handlers.NewRoomHandler(st, cfg)
	streamHandler := handlers.NewStreamHandler(st)
	questionsHandler := handlers.NewQuestionsHandler(gen)

The stream handler is registered without the logging wrapper since its
connections are long-lived.
*/
package router
