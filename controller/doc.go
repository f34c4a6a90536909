// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package controller ties a single client to a shared room: the host or
player orchestration layer sitting between the game state machine, the
store adapter, and the change notifier.

Every local mutation follows the same path: clone the current document,
run the state-machine transition, install the result locally, persist
it whole. The client renders from its optimistic copy immediately; the
notifier's echo later confirms or overwrites it. Remote deliveries
replace the local document unconditionally, full-document granularity,
last writer wins.

The countdown is local ephemeral state, never part of the document. It
starts whenever the observed status becomes "question" (or the question
index moves) and is seeded from timePerQuestion. When it reaches zero
the host controller alone ends the round, scores it, and persists the
result; player controllers just stop accepting answers.

Controllers own their timers and subscription and release both in
Close. A leaked ticker after a room transition is a bug, not a
tolerated behavior.
*/
package controller
