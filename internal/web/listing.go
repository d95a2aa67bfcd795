package web

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/scmmishra/inorder/internal/models"
)

// Listings come from the store in id order and are sorted by display name
// here, so "Émile Zola" lands among the E's.

func (h *SiteHandler) listAuthors(ctx context.Context) ([]models.Author, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	authors, err := h.catalog.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	SortAuthors(authors)
	return authors, nil
}

func (h *SiteHandler) listSeries(ctx context.Context) ([]models.Series, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	series, err := h.catalog.ListSeries(ctx)
	if err != nil {
		return nil, err
	}
	SortSeries(series)
	return series, nil
}

// Collators are not safe for concurrent use; each sort builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
}

func SortAuthors(authors []models.Author) {
	c := newCollator()
	sort.SliceStable(authors, func(i, j int) bool {
		return c.CompareString(authors[i].Name, authors[j].Name) < 0
	})
}

func SortSeries(series []models.Series) {
	c := newCollator()
	sort.SliceStable(series, func(i, j int) bool {
		return c.CompareString(series[i].Name, series[j].Name) < 0
	})
}
