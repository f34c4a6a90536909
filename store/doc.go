// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists room documents keyed by their short code.

The contract is deliberately narrow: Get returns the whole document,
Put replaces the whole document (create-or-replace). There is no
version token and no merge; concurrent writers race and the last PUT
wins. The submission path mitigates the race by merging its own entry
into the responses map client-side before overwriting, which narrows
but does not eliminate lost updates between two different players in
the same propagation window. A compare-and-swap upgrade would slot in
at this boundary without changing the rest of the system.

# Implementations

  - SQLStore: database/sql over SQLite (modernc, the default),
    PostgreSQL (lib/pq), or MySQL (go-sql-driver), selected by a small
    Dialect. Rooms live in one table as JSON plus a unix-nanosecond
    updated_at marker that watchers poll for changes.
  - MemoryStore: in-process map of serialized documents, used as the
    no-database fallback and by tests.
  - HTTPStore: client-side adapter that proxies Get/Put through the
    server's /rooms API, carrying the host capability key on writes.
*/
package store
