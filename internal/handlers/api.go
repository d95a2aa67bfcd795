package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/metrics"
	"github.com/scmmishra/inorder/internal/models"
	"github.com/scmmishra/inorder/internal/search"
	"github.com/scmmishra/inorder/internal/tracking"
)

type Searcher interface {
	Search(ctx context.Context, query string) search.Results
}

// Catalog lookups return sql.ErrNoRows for an unknown slug.
type Catalog interface {
	AuthorBySlug(ctx context.Context, slug string) (*models.Author, error)
	SeriesBySlug(ctx context.Context, slug string) (*models.Series, error)
}

type Rankings interface {
	TrendingAuthors(ctx context.Context, limit int) []models.Author
	FeaturedAuthor(ctx context.Context) (*models.Author, bool)
	PopularSeriesToday(ctx context.Context, limit int) []models.Series
}

type ClickSink interface {
	Push(ev tracking.Event) bool
}

type BotChecker interface {
	IsBot(userAgent string) bool
}

type APIHandler struct {
	Search       Searcher
	Catalog      Catalog
	Rankings     Rankings
	Clicks       ClickSink
	Bots         BotChecker
	QueryTimeout time.Duration

	TrendingLimit     int
	PopularTodayLimit int
}

type SearchResult struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

type homeResponse struct {
	Trending     []models.Author `json:"trending"`
	Featured     *models.Author  `json:"featured"`
	PopularToday []models.Series `json:"popular_today"`
}

// Flatten turns grouped results into the typed list the search box renders:
// authors, then series, then books.
func Flatten(r search.Results) []SearchResult {
	out := make([]SearchResult, 0, r.Len())
	for _, a := range r.Authors {
		out = append(out, SearchResult{Type: "Author", Name: a.Name, URL: a.URL})
	}
	for _, s := range r.Series {
		out = append(out, SearchResult{Type: "Series", Name: s.Name, URL: s.URL})
	}
	for _, b := range r.Books {
		out = append(out, SearchResult{Type: "Book", Name: b.Title, URL: models.BookSearchURL(b.Title)})
	}
	return out
}

func (h *APIHandler) SearchAPI(w http.ResponseWriter, r *http.Request) {
	res := h.Search.Search(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, searchResponse{Results: Flatten(res)})
}

func (h *APIHandler) Author(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	a, err := h.Catalog.AuthorBySlug(ctx, SlugParam(r))
	if err != nil {
		h.lookupError(w, "author", err)
		return
	}
	h.pageView(r, tracking.KindAuthor, a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (h *APIHandler) Series(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	s, err := h.Catalog.SeriesBySlug(ctx, SlugParam(r))
	if err != nil {
		h.lookupError(w, "series", err)
		return
	}
	h.pageView(r, tracking.KindSeries, s.ID)
	writeJSON(w, http.StatusOK, s)
}

func (h *APIHandler) Home(w http.ResponseWriter, r *http.Request) {
	featured, _ := h.Rankings.FeaturedAuthor(r.Context())
	writeJSON(w, http.StatusOK, homeResponse{
		Trending:     h.Rankings.TrendingAuthors(r.Context(), h.TrendingLimit),
		Featured:     featured,
		PopularToday: h.Rankings.PopularSeriesToday(r.Context(), h.PopularTodayLimit),
	})
}

// SlugParam is the {slug} route parameter decoded to the stored form. chi
// hands back the escaped segment when the request path carries an encoding
// that differs from Go's canonical one.
func SlugParam(r *http.Request) string {
	raw := chi.URLParam(r, "slug")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

func (h *APIHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.QueryTimeout > 0 {
		return context.WithTimeout(ctx, h.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

func (h *APIHandler) lookupError(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, kind+" not found", http.StatusNotFound)
		return
	}
	logging.Component("handlers").Error().Err(err).Str("kind", kind).Msg("lookup failed")
	jsonError(w, "internal error", http.StatusInternalServerError)
}

// pageView submits a click for a human visitor. It never blocks the response.
func (h *APIHandler) pageView(r *http.Request, kind tracking.Kind, id int64) {
	SubmitClick(h.Clicks, h.Bots, r, kind, id)
}

// SubmitClick pushes one click unless the request comes from a bot. It
// reports whether the event was handed to the sink.
func SubmitClick(sink ClickSink, bots BotChecker, r *http.Request, kind tracking.Kind, id int64) bool {
	if sink == nil {
		return false
	}
	if bots != nil && bots.IsBot(r.UserAgent()) {
		metrics.ClicksIgnored.WithLabelValues("bot").Inc()
		return false
	}
	return sink.Push(tracking.Event{Kind: kind, ID: id, ClickedAt: time.Now().UTC()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
