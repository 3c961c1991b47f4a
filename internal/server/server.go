//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package server exposes the dashboard figures as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/insights"
	"github.com/pgEdge/pgedge-olist/internal/logging"
	"github.com/pgEdge/pgedge-olist/internal/pipeline"
	"github.com/pgEdge/pgedge-olist/pkg/version"
)

// Server holds the current master table and serves views of it. The
// master is rebuilt only on Refresh.
type Server struct {
	loader  *dataset.Loader
	opts    insights.Options
	metrics *Metrics
	log     zerolog.Logger
	router  chi.Router

	mu       sync.RWMutex
	result   *pipeline.Result
	loadedAt time.Time
}

// New creates a server over loader. Call Refresh before serving.
func New(loader *dataset.Loader, opts insights.Options) *Server {
	s := &Server{
		loader:  loader,
		opts:    opts,
		metrics: NewMetrics(),
		log:     logging.Component("server"),
	}
	s.router = s.routes()
	return s
}

// Refresh drops every cached table, reloads the dataset and swaps in a
// freshly built master table.
func (s *Server) Refresh() error {
	s.loader.Refresh()
	ds, err := s.loader.LoadAll()
	if err != nil {
		s.metrics.observeLoadError()
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	res := pipeline.Build(ds)
	now := time.Now()

	s.mu.Lock()
	s.result = res
	s.loadedAt = now
	s.mu.Unlock()

	s.metrics.observeLoad(len(res.Rows), now)
	s.log.Info().Int("rows", len(res.Rows)).Msg("Dataset loaded")
	return nil
}

// Result returns the current master table.
func (s *Server) Result() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		s.log.Info().Msg("Server stopped")
		return nil
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metrics.middleware)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/filters", s.handleFilters)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/kpis", s.handleKPIs)
		r.Get("/weekly", s.handleWeekly)
		r.Get("/top-products", s.handleTopProducts)
		r.Get("/top-sellers", s.handleTopSellers)
		r.Get("/reviews", s.handleReviews)
		r.Get("/delivery", s.handleDelivery)
		r.Get("/geo", s.handleGeo)
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

// view filters the current master table per the request.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*pipeline.Result, []pipeline.Row, bool) {
	c, err := ParseCriteria(r)
	if err != nil {
		_ = render.Render(w, r, badRequest(err.Error()))
		return nil, nil, false
	}
	res := s.Result()
	if res == nil {
		_ = render.Render(w, r, internalError("dataset not loaded"))
		return nil, nil, false
	}
	return res, pipeline.Filter(res, c), true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	loaded, at := s.result != nil, s.loadedAt
	s.mu.RUnlock()

	resp := map[string]any{
		"status":  "ok",
		"version": version.Short(),
		"loaded":  loaded,
	}
	if loaded {
		resp["loaded_at"] = at.UTC().Format(time.RFC3339)
	}
	render.JSON(w, r, resp)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	c, err := ParseCriteria(r)
	if err != nil {
		_ = render.Render(w, r, badRequest(err.Error()))
		return
	}
	res := s.Result()
	if res == nil {
		_ = render.Render(w, r, internalError("dataset not loaded"))
		return
	}
	render.JSON(w, r, insights.Build(res, c, s.opts))
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	res := s.Result()
	if res == nil {
		_ = render.Render(w, r, internalError("dataset not loaded"))
		return
	}
	from, to := insights.DateBounds(res.Rows)
	options := insights.CategoryOptions(res.Rows)
	render.JSON(w, r, insights.Filters{
		AvailableFrom:     from,
		AvailableTo:       to,
		CategoryOptions:   options,
		DefaultCategories: insights.DefaultCategories(options, insights.DefaultCategoryCount),
	})
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	if _, rows, ok := s.view(w, r); ok {
		render.JSON(w, r, insights.ComputeKPIs(rows))
	}
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	if _, rows, ok := s.view(w, r); ok {
		render.JSON(w, r, insights.WeeklySeries(rows))
	}
}

func (s *Server) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	n, err := parseLimit(r, s.opts.TopProducts)
	if err != nil {
		_ = render.Render(w, r, badRequest(err.Error()))
		return
	}
	if res, rows, ok := s.view(w, r); ok {
		render.JSON(w, r, insights.TopProducts(res, rows, n))
	}
}

func (s *Server) handleTopSellers(w http.ResponseWriter, r *http.Request) {
	n, err := parseLimit(r, s.opts.TopSellers)
	if err != nil {
		_ = render.Render(w, r, badRequest(err.Error()))
		return
	}
	if res, rows, ok := s.view(w, r); ok {
		render.JSON(w, r, insights.TopSellers(res, rows, n))
	}
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	res := s.Result()
	if res == nil || res.Source == nil {
		_ = render.Render(w, r, internalError("dataset not loaded"))
		return
	}
	render.JSON(w, r, insights.ReviewDistribution(res.Source.Reviews))
}

func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	if _, rows, ok := s.view(w, r); ok {
		render.JSON(w, r, insights.DeliveryPerformance(rows, s.opts.Capabilities))
	}
}

func (s *Server) handleGeo(w http.ResponseWriter, r *http.Request) {
	n, err := parseLimit(r, s.opts.GeoLimit)
	if err != nil {
		_ = render.Render(w, r, badRequest(err.Error()))
		return
	}
	res := s.Result()
	if res == nil || res.Source == nil {
		_ = render.Render(w, r, internalError("dataset not loaded"))
		return
	}
	render.JSON(w, r, insights.GeoSample(res.Source.Geolocation, n, s.opts.GeoSeed))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(); err != nil {
		s.log.Error().Err(err).Msg("Refresh failed")
		_ = render.Render(w, r, internalError(err.Error()))
		return
	}
	res := s.Result()
	render.JSON(w, r, map[string]any{
		"status": "refreshed",
		"rows":   len(res.Rows),
	})
}
