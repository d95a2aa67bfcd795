package models

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

type AuthorHit struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

type SeriesHit struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

// BookHit has no detail URL; books are shown inside their series.
type BookHit struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	PublicationYear int    `json:"publication_year"`
	ImageURL        string `json:"image_url,omitempty"`
	AmazonLink      string `json:"amazon_link,omitempty"`
}

// SearchQuery carries both match forms, already case-folded. A candidate
// matches when Plain is a substring of its folded form, or when Compact is a
// substring of it with periods and spaces removed.
type SearchQuery struct {
	Plain   string
	Compact string
}

var compactReplacer = strings.NewReplacer(".", "", " ", "")

// Fold is the caseless form used on both sides of a search match. It folds
// every script, not just ASCII ("ÉMILE" and "émile" agree).
func Fold(s string) string {
	return cases.Fold().String(s)
}

func Compact(s string) string {
	return Fold(compactReplacer.Replace(s))
}

func NewSearchQuery(q string) SearchQuery {
	return SearchQuery{Plain: Fold(q), Compact: Compact(q)}
}

// BookSearchURL is where a book hit links to; books have no page of their own.
func BookSearchURL(title string) string {
	return "/search?q=" + strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
}
