package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/scmmishra/inorder/internal/models"
	"github.com/scmmishra/inorder/internal/slug"
)

const (
	authorColumns = `a.id, a.name, COALESCE(a.slug, ''), COALESCE(a.description, ''), COALESCE(a.image_url, '')`
	seriesColumns = `s.id, s.author_id, s.name, COALESCE(s.slug, ''), COALESCE(s.description, ''), a.name, COALESCE(a.slug, '')`
	bookColumns   = `b.id, b.series_id, b.title, COALESCE(b.slug, ''), COALESCE(b.publish_year, 0), COALESCE(b.isbn, ''), COALESCE(b.amazon_link, ''), COALESCE(b.image_url, '')`
)

func scanAuthor(row scanner, a *models.Author, extra ...any) error {
	dest := append([]any{&a.ID, &a.Name, &a.Slug, &a.Description, &a.ImageURL}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	a.Slug = slug.Resolve(a.Slug, a.Name)
	a.FillURL()
	if a.Series == nil {
		a.Series = []models.Series{}
	}
	return nil
}

func scanSeries(row scanner, s *models.Series, extra ...any) error {
	dest := append([]any{&s.ID, &s.AuthorID, &s.Name, &s.Slug, &s.Description, &s.AuthorName, &s.AuthorSlug}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	s.Slug = slug.Resolve(s.Slug, s.Name)
	s.AuthorSlug = slug.Resolve(s.AuthorSlug, s.AuthorName)
	s.FillURL()
	if s.Books == nil {
		s.Books = []models.Book{}
	}
	return nil
}

func scanBook(row scanner, b *models.Book) error {
	if err := row.Scan(&b.ID, &b.SeriesID, &b.Title, &b.Slug, &b.PublicationYear, &b.ISBN, &b.AmazonLink, &b.ImageURL); err != nil {
		return err
	}
	b.Slug = slug.Resolve(b.Slug, b.Title)
	return nil
}

// AuthorBySlug returns the author with its series and their books.
func (s *Store) AuthorBySlug(ctx context.Context, sl string) (*models.Author, error) {
	id, err := s.idBySlug(ctx, "authors", sl)
	if err != nil {
		return nil, err
	}
	return s.AuthorByID(ctx, id)
}

func (s *Store) SeriesBySlug(ctx context.Context, sl string) (*models.Series, error) {
	id, err := s.idBySlug(ctx, "series", sl)
	if err != nil {
		return nil, err
	}
	return s.SeriesByID(ctx, id)
}

// idBySlug matches the persisted slug first. Rows whose slug has not been
// backfilled yet are routable through the slug derived from their name.
func (s *Store) idBySlug(ctx context.Context, table, sl string) (int64, error) {
	if sl == "" {
		return 0, sql.ErrNoRows
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE slug = ?`, sl).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup %s slug: %w", table, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM `+table+` WHERE slug IS NULL OR slug = '' ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("scan unslugged %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return 0, fmt.Errorf("scan unslugged %s: %w", table, err)
		}
		if slug.Resolve("", name) == sl {
			return id, nil
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("scan unslugged %s: %w", table, err)
	}
	return 0, sql.ErrNoRows
}

func (s *Store) AuthorByID(ctx context.Context, id int64) (*models.Author, error) {
	a := &models.Author{}
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors a WHERE a.id = ?`, id)
	if err := scanAuthor(row, a); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	series, err := s.seriesWhere(ctx, `s.author_id = ? ORDER BY s.name`, id)
	if err != nil {
		return nil, err
	}
	for i := range series {
		if series[i].Books, err = s.BooksBySeries(ctx, series[i].ID); err != nil {
			return nil, err
		}
	}
	a.Series = series
	if a.Description == "" {
		a.Description = fmt.Sprintf("Author of %d series.", len(series))
	}
	return a, nil
}

func (s *Store) SeriesByID(ctx context.Context, id int64) (*models.Series, error) {
	sr := &models.Series{}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+seriesColumns+` FROM series s JOIN authors a ON a.id = s.author_id WHERE s.id = ?`, id)
	if err := scanSeries(row, sr); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get series: %w", err)
	}

	books, err := s.BooksBySeries(ctx, id)
	if err != nil {
		return nil, err
	}
	sr.Books = books
	return sr, nil
}

// BooksBySeries returns books in creation order, which is the reading order.
func (s *Store) BooksBySeries(ctx context.Context, seriesID int64) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.series_id = ? ORDER BY b.id`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ListAuthors is a full scan in id order; callers sort for display.
func (s *Store) ListAuthors(ctx context.Context) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+authorColumns+` FROM authors a ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		var a models.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *Store) ListSeries(ctx context.Context) ([]models.Series, error) {
	return s.seriesWhere(ctx, `1=1 ORDER BY s.id`)
}

func (s *Store) seriesWhere(ctx context.Context, where string, args ...any) ([]models.Series, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seriesColumns+` FROM series s JOIN authors a ON a.id = s.author_id WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	series := []models.Series{}
	for rows.Next() {
		var sr models.Series
		if err := scanSeries(rows, &sr); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		series = append(series, sr)
	}
	return series, rows.Err()
}

// CreateAuthor, CreateSeries and CreateBook serve seeding and tests; the
// catalog is otherwise written by ingestion tooling.
func (s *Store) CreateAuthor(ctx context.Context, a *models.Author) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (name, slug, description, image_url) VALUES (?, ?, ?, ?)`,
		a.Name, nullString(a.Slug), nullString(a.Description), nullString(a.ImageURL),
	)
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	a.ID, _ = res.LastInsertId()
	a.Slug = slug.Resolve(a.Slug, a.Name)
	a.FillURL()
	return nil
}

func (s *Store) CreateSeries(ctx context.Context, sr *models.Series) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO series (author_id, name, slug, description) VALUES (?, ?, ?, ?)`,
		sr.AuthorID, sr.Name, nullString(sr.Slug), nullString(sr.Description),
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", err)
	}
	sr.ID, _ = res.LastInsertId()
	sr.Slug = slug.Resolve(sr.Slug, sr.Name)
	sr.FillURL()
	return nil
}

func (s *Store) CreateBook(ctx context.Context, b *models.Book) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (series_id, title, slug, publish_year, isbn, amazon_link, image_url) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.SeriesID, b.Title, nullString(b.Slug), nullInt(b.PublicationYear),
		nullString(b.ISBN), nullString(b.AmazonLink), nullString(b.ImageURL),
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	b.ID, _ = res.LastInsertId()
	b.Slug = slug.Resolve(b.Slug, b.Title)
	return nil
}
