// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with
environment variable fallbacks.

Required settings:

  - HOST_KEY_SALT (--host-salt): secret for host/admin capability keys
  - DATABASE_URL (-d): connection string, required for postgres/mysql

Optional settings:

  - PORT (-p): server port (default: 3420)
  - DATABASE_TYPE (-t): sqlite (default), postgres, or mysql
  - DB_PATH (--db-path): SQLite file path (default: ./rooms.db)
  - OPENAI_API_KEY (--openai-key): without it the question generator
    serves the built-in fallback banks
  - OPENAI_BASE_URL: override the OpenAI endpoint
*/
package cliparse
