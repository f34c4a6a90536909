// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/nixgames/trivia-rooms/cliparse"
)

// Dialect captures the per-engine differences of the rooms table:
// driver name, DSN shape, placeholder style, and upsert syntax.
type Dialect interface {
	DriverName() string
	DSN(cfg cliparse.Config) string
	RewriteQuery(query string) string
	Schema() string
	UpsertRoom() string
}

// DialectFor maps a configured database type to its dialect.
func DialectFor(databaseType string) (Dialect, error) {
	switch strings.ToLower(databaseType) {
	case "sqlite", "sqlite3", "":
		return sqliteDialect{}, nil
	case "postgres", "postgresql":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", databaseType)
	}
}

// updated_at is stored as unix nanoseconds in every engine, so change
// markers compare the same way across dialects.

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return "sqlite" }

func (sqliteDialect) DSN(cfg cliparse.Config) string { return cfg.DatabasePath }

func (sqliteDialect) RewriteQuery(query string) string { return query }

func (sqliteDialect) Schema() string {
	return `
CREATE TABLE IF NOT EXISTS rooms (
    code TEXT PRIMARY KEY,
    doc TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);`
}

func (sqliteDialect) UpsertRoom() string {
	return `INSERT INTO rooms (code, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) DSN(cfg cliparse.Config) string { return cfg.DatabaseURL }

func (postgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (postgresDialect) Schema() string {
	return `
CREATE TABLE IF NOT EXISTS rooms (
    code TEXT PRIMARY KEY,
    doc TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);`
}

func (postgresDialect) UpsertRoom() string {
	return `INSERT INTO rooms (code, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`
}

type mysqlDialect struct{}

func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) DSN(cfg cliparse.Config) string { return cfg.DatabaseURL }

func (mysqlDialect) RewriteQuery(query string) string { return query }

func (mysqlDialect) Schema() string {
	return `
CREATE TABLE IF NOT EXISTS rooms (
    code VARCHAR(16) PRIMARY KEY,
    doc TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);`
}

func (mysqlDialect) UpsertRoom() string {
	return `INSERT INTO rooms (code, doc, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE doc = VALUES(doc), updated_at = VALUES(updated_at)`
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
