package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/scmmishra/inorder/internal/models"
	"github.com/scmmishra/inorder/internal/slug"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// matchClause ORs a plain substring match with a match against the column
// stripped of periods and spaces. The column goes through fold() (registered
// in package db) and the query arrives folded, so case is ignored in every
// script. A query made only of periods and spaces has no compact form and
// skips the second branch.
func matchClause(column string) string {
	folded := `fold(` + column + `)`
	return `(` + folded + ` LIKE ? ESCAPE '\'` +
		` OR (? <> '' AND REPLACE(REPLACE(` + folded + `, '.', ''), ' ', '') LIKE ? ESCAPE '\'))`
}

func matchArgs(q models.SearchQuery) []any {
	return []any{containsPattern(q.Plain), q.Compact, containsPattern(q.Compact)}
}

func (s *Store) SearchAuthors(ctx context.Context, q models.SearchQuery, limit int) ([]models.AuthorHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, COALESCE(slug, '') FROM authors WHERE `+matchClause("name")+` ORDER BY id LIMIT ?`,
		append(matchArgs(q), limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}
	defer rows.Close()

	var hits []models.AuthorHit
	for rows.Next() {
		var h models.AuthorHit
		if err := rows.Scan(&h.Name, &h.Slug); err != nil {
			return nil, fmt.Errorf("scan author hit: %w", err)
		}
		h.Slug = slug.Resolve(h.Slug, h.Name)
		h.URL = models.AuthorURL(h.Slug)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) SearchSeries(ctx context.Context, q models.SearchQuery, limit int) ([]models.SeriesHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, COALESCE(slug, '') FROM series WHERE `+matchClause("name")+` ORDER BY id LIMIT ?`,
		append(matchArgs(q), limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("search series: %w", err)
	}
	defer rows.Close()

	var hits []models.SeriesHit
	for rows.Next() {
		var h models.SeriesHit
		if err := rows.Scan(&h.Name, &h.Slug); err != nil {
			return nil, fmt.Errorf("scan series hit: %w", err)
		}
		h.Slug = slug.Resolve(h.Slug, h.Name)
		h.URL = models.SeriesURL(h.Slug)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) SearchBooks(ctx context.Context, q models.SearchQuery, limit int) ([]models.BookHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, COALESCE(slug, ''), COALESCE(publish_year, 0), COALESCE(image_url, ''), COALESCE(amazon_link, '')
		 FROM books WHERE `+matchClause("title")+` ORDER BY id LIMIT ?`,
		append(matchArgs(q), limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	var hits []models.BookHit
	for rows.Next() {
		var h models.BookHit
		if err := rows.Scan(&h.Title, &h.Slug, &h.PublicationYear, &h.ImageURL, &h.AmazonLink); err != nil {
			return nil, fmt.Errorf("scan book hit: %w", err)
		}
		h.Slug = slug.Resolve(h.Slug, h.Title)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
