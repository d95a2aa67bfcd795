package db

import "database/sql"

func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Catalog rows are owned by ingestion tooling; slug columns may be NULL until
// the backfill persists them. Stats rows are created lazily by tracking.
const schema = `
CREATE TABLE IF NOT EXISTS authors (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT    NOT NULL,
    slug        TEXT    UNIQUE,
    description TEXT,
    image_url   TEXT
);

CREATE TABLE IF NOT EXISTS series (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    author_id   INTEGER NOT NULL,
    name        TEXT    NOT NULL,
    slug        TEXT    UNIQUE,
    description TEXT,
    FOREIGN KEY (author_id) REFERENCES authors(id)
);

CREATE INDEX IF NOT EXISTS idx_series_author_id ON series(author_id);

CREATE TABLE IF NOT EXISTS books (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    series_id    INTEGER NOT NULL,
    title        TEXT    NOT NULL,
    slug         TEXT,
    publish_year INTEGER,
    isbn         TEXT,
    amazon_link  TEXT,
    image_url    TEXT,
    UNIQUE(series_id, slug),
    FOREIGN KEY (series_id) REFERENCES series(id)
);

CREATE INDEX IF NOT EXISTS idx_books_series_id ON books(series_id);

CREATE TABLE IF NOT EXISTS author_stats (
    author_id     INTEGER PRIMARY KEY,
    clicks_weekly INTEGER NOT NULL DEFAULT 0,
    last_updated  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (author_id) REFERENCES authors(id)
);

CREATE TABLE IF NOT EXISTS series_clicks_daily (
    day       TEXT    NOT NULL,
    series_id INTEGER NOT NULL,
    clicks    INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (day, series_id),
    FOREIGN KEY (series_id) REFERENCES series(id)
);

CREATE TABLE IF NOT EXISTS series_stats (
    series_id     INTEGER PRIMARY KEY,
    clicks_weekly INTEGER NOT NULL DEFAULT 0,
    last_updated  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (series_id) REFERENCES series(id)
);

CREATE INDEX IF NOT EXISTS idx_author_stats_weekly ON author_stats(clicks_weekly DESC);
CREATE INDEX IF NOT EXISTS idx_series_clicks_daily_day ON series_clicks_daily(day, clicks DESC);
`
