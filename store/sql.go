// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nixgames/trivia-rooms/cliparse"
	"github.com/nixgames/trivia-rooms/models"
)

// SQLStore persists room documents as JSON in a single keyed table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL connects to the configured database and ensures the schema
// exists. Safe to call on an existing database.
func OpenSQL(cfg cliparse.Config) (*SQLStore, error) {
	dialect, err := DialectFor(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s := &SQLStore{db: db, dialect: dialect}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an already-open connection, creating the schema.
// Used by tests that manage the connection themselves.
func NewSQLStore(db *sql.DB, databaseType string) (*SQLStore, error) {
	dialect, err := DialectFor(databaseType)
	if err != nil {
		return nil, err
	}
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.createSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) createSchema() error {
	if _, err := s.db.Exec(s.dialect.Schema()); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *SQLStore) Close() error { return s.db.Close() }

// Get fetches the room document by code.
func (s *SQLStore) Get(ctx context.Context, code string) (*models.Room, error) {
	query := s.dialect.RewriteQuery(`SELECT doc FROM rooms WHERE code = ?`)

	var doc []byte
	err := s.db.QueryRowContext(ctx, query, normalizeCode(code)).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal(doc, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room document: %w", err)
	}
	return &room, nil
}

// Put replaces the whole room document, creating it if absent. The
// stored updated_at marker advances on every write so watchers can
// detect the change.
func (s *SQLStore) Put(ctx context.Context, room *models.Room) error {
	doc, err := room.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode room document: %w", err)
	}

	query := s.dialect.RewriteQuery(s.dialect.UpsertRoom())
	_, err = s.db.ExecContext(ctx, query, normalizeCode(room.Code), doc, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store room: %w", err)
	}
	return nil
}

// Revision returns the unix-nanosecond timestamp of the last write.
func (s *SQLStore) Revision(ctx context.Context, code string) (int64, error) {
	query := s.dialect.RewriteQuery(`SELECT updated_at FROM rooms WHERE code = ?`)

	var rev int64
	err := s.db.QueryRowContext(ctx, query, normalizeCode(code)).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch room revision: %w", err)
	}
	return rev, nil
}

// List returns every room, most recently written first.
func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	query := s.dialect.RewriteQuery(`SELECT doc, updated_at FROM rooms ORDER BY updated_at DESC`)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var doc []byte
		var updatedAt int64
		if err := rows.Scan(&doc, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		var room models.Room
		if err := json.Unmarshal(doc, &room); err != nil {
			return nil, fmt.Errorf("failed to decode room document: %w", err)
		}
		records = append(records, Record{Room: &room, UpdatedAt: time.Unix(0, updatedAt)})
	}
	return records, rows.Err()
}

// normalizeCode upper-cases the room code so lookups are
// case-insensitive regardless of how players typed it.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
