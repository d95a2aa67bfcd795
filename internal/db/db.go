package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

type Options struct {
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
}

var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"cache_size(-20000)", // 20MB
}

// Open returns the process-wide pool. File databases carry their pragmas in
// the DSN so every pooled connection gets them; ":memory:" is pinned to a
// single connection because each sqlite connection would see its own database.
func Open(path string, opts Options) (*sql.DB, error) {
	memory := path == ":memory:"

	dsn := path
	if !memory {
		q := url.Values{}
		for _, p := range pragmas {
			q.Add("_pragma", p)
		}
		dsn = "file:" + path + "?" + q.Encode()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if memory {
		if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma: %w", err)
		}
		opts.MaxOpenConns = 1
		// an idle-closed connection would take the in-memory database with it
		opts.ConnMaxIdleTime = 0
	}

	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 1
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
