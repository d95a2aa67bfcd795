package models

import "net/url"

// Book belongs to exactly one series. Its slug is only unique within that
// series. PublicationYear is 0 when unknown.
type Book struct {
	ID              int64  `json:"id"`
	SeriesID        int64  `json:"series_id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	PublicationYear int    `json:"publication_year"`
	ISBN            string `json:"isbn,omitempty"`
	AmazonLink      string `json:"amazon_link,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
}

// Series books are kept in creation order, which is the reading order.
type Series struct {
	ID          int64  `json:"id"`
	AuthorID    int64  `json:"author_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorSlug  string `json:"author_slug"`
	Description string `json:"description,omitempty"`
	Clicks      int64  `json:"clicks,omitempty"`
	Books       []Book `json:"books"`
}

type Author struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Clicks      int64    `json:"clicks,omitempty"`
	Series      []Series `json:"series"`
}

// AuthorURL and SeriesURL escape the slug as one path segment; slugs may
// carry letters outside ASCII.
func AuthorURL(slug string) string { return "/authors/" + url.PathEscape(slug) }

func SeriesURL(slug string) string { return "/series/" + url.PathEscape(slug) }

func (a *Author) FillURL() {
	a.URL = AuthorURL(a.Slug)
}

func (s *Series) FillURL() {
	s.URL = SeriesURL(s.Slug)
}
