// Package server exposes the dashboard HTTP API: mock metric datasets,
// rendered insights, and an endpoint that runs arbitrary markdown through the
// safe render pipeline.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/esgboard/internal/config"
	"git.home.luguber.info/inful/esgboard/internal/esg"
	"git.home.luguber.info/inful/esgboard/internal/insight"
	"git.home.luguber.info/inful/esgboard/internal/render"
)

// InsightSource is what the API needs from the persistence layer.
type InsightSource interface {
	ListInsights(ctx context.Context, publishedOnly bool) ([]insight.Insight, error)
	GetInsight(ctx context.Context, id string) (insight.Insight, error)
}

// Server is the dashboard HTTP API.
type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
	renderer *render.Renderer
	insights InsightSource
	dataset  func() *esg.Dataset
}

// Options carries the server's collaborators.
type Options struct {
	Renderer *render.Renderer
	Insights InsightSource
	// Dataset returns the current dashboard dataset. Called per request so
	// the daemon can swap in fresh snapshots.
	Dataset  func() *esg.Dataset
	Registry *prom.Registry
}

// New constructs the server and its routes.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Renderer == nil {
		opts.Renderer = render.New(nil)
	}

	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		renderer: opts.Renderer,
		insights: opts.Insights,
		dataset:  opts.Dataset,
	}
	s.setupRoutes(opts.Registry)

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(reg *prom.Registry) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/metrics/carbon", s.handleCarbon)
		r.Get("/metrics/suppliers", s.handleSuppliers)
		r.Get("/metrics/compliance", s.handleCompliance)
		r.Get("/insights", s.handleListInsights)
		r.Get("/insights/{id}", s.handleGetInsight)
		r.Post("/render", s.handleRender)
	})

	if reg != nil {
		s.router.Get("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP)
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
