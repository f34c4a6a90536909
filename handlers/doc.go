// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers.

# Room Document Endpoints

  - POST /rooms: create a room, returning the document and the host
    capability key
  - GET /rooms/{code}: fetch the room document
  - PUT /rooms/{code}: create-or-replace the whole document; writes
    that change the phase require X-Host-Key
  - POST /rooms/{code}/join: append a player server-side
  - GET /rooms: operator listing, requires X-Admin-Key

# Push Channel

GET /rooms-stream/{code} serves the SSE stream: a "connected" event,
the current document, then one "update" per observed change of the
store's revision marker (checked every 300 ms). Byte-identical
documents are suppressed. Store trouble surfaces as "error" events and
the stream keeps trying; clients decide when to fall back to polling.

# Question Generation

POST /generate-questions proxies the AI generator, bounding the count
to 1-20 and always resolving to a playable set (fallback bank on
upstream failure). GET /catalog lists the selectable AI models and
built-in themes.
*/
package handlers
