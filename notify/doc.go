// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers room documents to subscribed clients as soon as
possible after any client persists a change, without the server keeping
a subscriber list.

# Protocol

Each subscription runs exactly one delivery channel at a time:

 1. Push: a long-lived SSE stream scoped to the room code. The server
    emits the current document on connect and re-emits whenever its
    change marker moves.
 2. Fallback: if the stream errors, or stays silent for 3 seconds after
    subscribing, the subscription tears it down and polls the store's
    get-by-code operation every 500 ms instead.

The switch is one-directional: a subscription that fell back to polling
never upgrades again. Payloads byte-identical to the last delivered
document are suppressed on both channels, so redundant deliveries do
not reach the callback.

Push delivery can be unavailable or silently non-functional depending
on deployment; the fallback keeps clients from going permanently stale,
which is why a push failure is only ever a logged warning.
*/
package notify
