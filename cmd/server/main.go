package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scmmishra/inorder/internal/analytics"
	"github.com/scmmishra/inorder/internal/config"
	"github.com/scmmishra/inorder/internal/db"
	"github.com/scmmishra/inorder/internal/handlers"
	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/search"
	"github.com/scmmishra/inorder/internal/store"
	"github.com/scmmishra/inorder/internal/tracking"
	"github.com/scmmishra/inorder/internal/trending"
	"github.com/scmmishra/inorder/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// One pool for the life of the process, handed to every component.
	database, err := db.Open(cfg.DBPath, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database")
	}
	defer database.Close()

	st := store.New(database)

	bots, err := analytics.NewBotFilter(cfg.BotCacheSize)
	if err != nil {
		logging.Fatal().Err(err).Msg("bot filter")
	}

	searcher := search.NewEngine(st, cfg.QueryTimeout)
	rankings := trending.NewService(st, trending.Options{
		FallbackSize: cfg.TrendingFallbackSize,
		Timeout:      cfg.QueryTimeout,
	})
	collector := tracking.NewCollector(tracking.NewEngine(st, cfg.QueryTimeout), cfg.BufferSize, cfg.FlushInterval)

	api := &handlers.APIHandler{
		Search:            searcher,
		Catalog:           st,
		Rankings:          rankings,
		Clicks:            collector,
		Bots:              bots,
		QueryTimeout:      cfg.QueryTimeout,
		TrendingLimit:     cfg.TrendingLimit,
		PopularTodayLimit: cfg.PopularTodayLimit,
	}

	site, err := web.NewSiteHandler(st, searcher, rankings, collector, bots, web.Options{
		BaseURL:           cfg.BaseURL,
		QueryTimeout:      cfg.QueryTimeout,
		TrendingLimit:     cfg.TrendingLimit,
		PopularTodayLimit: cfg.PopularTodayLimit,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("templates")
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(logging.RequestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", api.SearchAPI)
		r.Get("/home", api.Home)
		r.Get("/authors/{slug}", api.Author)
		r.Get("/series/{slug}", api.Series)
		r.With(handlers.RateLimit(cfg.TrackRateLimit, cfg.TrackRateWindow)).Post("/track", api.Track)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	site.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logging.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("inorder listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("server")
		}
	}()

	<-stop
	logging.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown")
	}

	collector.Shutdown()
	logging.Info().Msg("goodbye")
}
