// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package game implements the room state machine: pure transition
functions over the room document, no I/O.

# Phases

	lobby -> generating -> question <-> results -> final -> (reset) -> lobby

The results phase loops back to question on NextQuestion until the last
question, after which EndQuestion lands in final.

# Scoring

A correct answer earns the difficulty's base points plus a speed bonus
of max(0, round(remaining)), where remaining is the seconds left on the
answering client's countdown at submission time. Wrong or missing
answers earn zero. Personality mode has no correct index: the players
with the most votes win the round and everyone who voted for one of
them scores.

# Capabilities

BeginGeneration, NextQuestion, and ResetScores take a Role parameter
and refuse RolePlayer with ErrHostOnly. The state machine does not
decide who the host is; the caller presents the capability.
*/
package game
