// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the room document, its wire format, and the
request/response types for the API.

# The Room Document

Room is the single shared record for one game session. Every write to
the store replaces the whole document; every delivery on the stream
carries the whole document. The JSON keys are stable across persistence
and push payloads:

	code, hostName, gameMode, theme, generatedTheme, aiModel,
	difficulty, questionCount, timePerQuestion, players, questions,
	currentIndex, status, responses, lastGain

# Status Values

	StatusLobby      = "lobby"
	StatusGenerating = "generating"
	StatusQuestion   = "question"
	StatusResults    = "results"
	StatusFinal      = "final"

# Game Modes

	ModeStandard    = "standard"     classic four-choice trivia
	ModeEmoji       = "emoji"        decode an emoji sequence
	ModePersonality = "personality"  vote for a player, plurality wins
	ModeCustom      = "custom"       host-supplied or AI-generated theme

# Difficulties

Each difficulty carries a fixed base point value (DifficultyPoints):
easy 10, medium 20, hard 35, impossible 50.

# Stream Envelope

StreamEvent frames each push-channel delivery as one of three typed
events: "connected" (channel established), "update" (full room
document), "error" (delivery problem, channel may still recover).
*/
package models
