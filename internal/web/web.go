package web

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scmmishra/inorder/internal/handlers"
	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/models"
	"github.com/scmmishra/inorder/internal/search"
	"github.com/scmmishra/inorder/internal/tracking"
)

type Catalog interface {
	handlers.Catalog
	ListAuthors(ctx context.Context) ([]models.Author, error)
	ListSeries(ctx context.Context) ([]models.Series, error)
}

type Options struct {
	BaseURL           string
	QueryTimeout      time.Duration
	TrendingLimit     int
	PopularTodayLimit int
}

type SiteHandler struct {
	catalog   Catalog
	search    handlers.Searcher
	rankings  handlers.Rankings
	clicks    handlers.ClickSink
	bots      handlers.BotChecker
	opts      Options
	templates *TemplateRegistry
}

func NewSiteHandler(catalog Catalog, searcher handlers.Searcher, rankings handlers.Rankings,
	clicks handlers.ClickSink, bots handlers.BotChecker, opts Options) (*SiteHandler, error) {
	tmpl, err := NewTemplateRegistry()
	if err != nil {
		return nil, err
	}

	return &SiteHandler{
		catalog:   catalog,
		search:    searcher,
		rankings:  rankings,
		clicks:    clicks,
		bots:      bots,
		opts:      opts,
		templates: tmpl,
	}, nil
}

func (h *SiteHandler) RegisterRoutes(r chi.Router) {
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Get("/", h.Home)
	r.Get("/authors", h.AuthorList)
	r.Get("/authors/{slug}", h.AuthorPage)
	r.Get("/series", h.SeriesList)
	r.Get("/series/{slug}", h.SeriesPage)
	r.Get("/series/{slug}/qr.png", h.SeriesQRCode)
	r.Get("/search", h.SearchPage)
	r.Get("/sitemap.xml", h.Sitemap)
	r.NotFound(h.NotFound)
}

type Page struct {
	Title       string
	Description string
	Canonical   string
}

type homeData struct {
	Page
	Trending     []models.Author
	Featured     *models.Author
	PopularToday []models.Series
}

type authorListData struct {
	Page
	Authors []models.Author
}

type seriesListData struct {
	Page
	Series []models.Series
}

type authorData struct {
	Page
	Author *models.Author
}

type seriesData struct {
	Page
	Series *models.Series
	QRCode string
}

type searchData struct {
	Page
	Query    string
	Results  search.Results
	TooShort bool
}

func (h *SiteHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, h.opts.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

func (h *SiteHandler) canonical(path string) string {
	return h.opts.BaseURL + path
}

func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	featured, _ := h.rankings.FeaturedAuthor(ctx)
	h.templates.Render(w, http.StatusOK, "templates/home.html", homeData{
		Page: Page{
			Title:       "InOrder: reading order for every book series",
			Description: "Find the right order to read your favourite book series.",
			Canonical:   h.canonical("/"),
		},
		Trending:     h.rankings.TrendingAuthors(ctx, h.opts.TrendingLimit),
		Featured:     featured,
		PopularToday: h.rankings.PopularSeriesToday(ctx, h.opts.PopularTodayLimit),
	})
}

// AuthorList degrades to an empty page when the store is unavailable.
func (h *SiteHandler) AuthorList(w http.ResponseWriter, r *http.Request) {
	authors, err := h.listAuthors(r.Context())
	if err != nil {
		logging.Component("web").Error().Err(err).Msg("list authors")
		authors = []models.Author{}
	}
	h.templates.Render(w, http.StatusOK, "templates/authors.html", authorListData{
		Page:    Page{Title: "All authors", Canonical: h.canonical("/authors")},
		Authors: authors,
	})
}

func (h *SiteHandler) SeriesList(w http.ResponseWriter, r *http.Request) {
	series, err := h.listSeries(r.Context())
	if err != nil {
		logging.Component("web").Error().Err(err).Msg("list series")
		series = []models.Series{}
	}
	h.templates.Render(w, http.StatusOK, "templates/series_list.html", seriesListData{
		Page:   Page{Title: "All series", Canonical: h.canonical("/series")},
		Series: series,
	})
}

func (h *SiteHandler) AuthorPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	a, err := h.catalog.AuthorBySlug(ctx, handlers.SlugParam(r))
	if err != nil {
		h.lookupFailed(w, r, "author", err)
		return
	}
	handlers.SubmitClick(h.clicks, h.bots, r, tracking.KindAuthor, a.ID)

	h.templates.Render(w, http.StatusOK, "templates/author.html", authorData{
		Page: Page{
			Title:       a.Name + " books in order",
			Description: a.Description,
			Canonical:   h.canonical(a.URL),
		},
		Author: a,
	})
}

func (h *SiteHandler) SeriesPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	s, err := h.catalog.SeriesBySlug(ctx, handlers.SlugParam(r))
	if err != nil {
		h.lookupFailed(w, r, "series", err)
		return
	}
	handlers.SubmitClick(h.clicks, h.bots, r, tracking.KindSeries, s.ID)

	description := s.Description
	if description == "" {
		description = "The " + s.Name + " series by " + s.AuthorName + " in reading order."
	}
	h.templates.Render(w, http.StatusOK, "templates/series.html", seriesData{
		Page: Page{
			Title:       s.Name + " in order",
			Description: description,
			Canonical:   h.canonical(s.URL),
		},
		Series: s,
		QRCode: s.URL + "/qr.png",
	})
}

func (h *SiteHandler) SearchPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	h.templates.Render(w, http.StatusOK, "templates/search.html", searchData{
		Page:     Page{Title: "Search", Canonical: h.canonical("/search")},
		Query:    q,
		Results:  h.search.Search(r.Context(), q),
		TooShort: q != "" && len([]rune(q)) < search.MinQueryLength,
	})
}

func (h *SiteHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.templates.Render(w, http.StatusNotFound, "templates/not_found.html", Page{Title: "Not found"})
}

// lookupFailed sends unknown slugs to the not-found page and store failures
// to a plain 500.
func (h *SiteHandler) lookupFailed(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		h.NotFound(w, r)
		return
	}
	logging.Component("web").Error().Err(err).Str("kind", kind).Msg("lookup failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
