// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and validation for rooms.

# Room Codes

GenerateRoomCode produces a 5-character upper-case code from an
alphabet without easily confused glyphs. Codes are random, not
derived, so callers should retry on the (rare) collision.

# Player IDs

GeneratePlayerID produces "host-<uuid>" or "player-<uuid>" identifiers,
unique and stable for the session.

# Capability Keys

Host-only actions (start game, next question, reset) are authorized by
a capability key rather than by which UI a client happens to render.
GenerateHostKey derives the key as HMAC-SHA256 of the room code under a
server salt, so keys are verifiable without storage. The admin key for
the operator room listing works the same way with a fixed subject.
*/
package auth
