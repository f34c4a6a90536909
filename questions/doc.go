// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package questions generates trivia question sets.

OpenAIGenerator builds one prompt per game mode (standard/custom
four-choice trivia, emoji decoder, personality "most likely to"), calls
the chat-completions API, strips any markdown code fences from the
reply, and clamps the result to the requested count. Custom mode can
also ask the model for a one-off surprise theme.

Failure never propagates: a missing API key, an upstream error, or an
unparseable reply all degrade to the deterministic fallback banks, so
the caller can rely on generation resolving to a playable question set.
*/
package questions
