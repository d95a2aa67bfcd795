// Package store issues every SQL statement the site runs against the catalog
// and its click counters. Lookups report a missing row as sql.ErrNoRows so
// callers can tell "not found" apart from a failing database.
package store

import (
	"context"
	"database/sql"
	"strings"
)

type Store struct {
	db *sql.DB
}

// New wraps the process-wide pool. The pool is owned by the caller.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// nullString stores empty optional text as NULL so slug uniqueness only
// applies to slugs that were actually persisted.
func nullString(v string) sql.NullString {
	v = strings.TrimSpace(v)
	return sql.NullString{String: v, Valid: v != ""}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

type scanner interface {
	Scan(dest ...any) error
}
