// Package api serves the generation pipeline over HTTP.
//
// The server exposes the static lookup tables, a synchronous preview of
// expanded records and an asynchronous job API: POST /v1/jobs starts a
// pipeline run in the background, GET /v1/jobs/{id} reports its progress and
// outcome, and the written files are downloadable under
// /v1/jobs/{id}/files/. Every job writes into its own directory below the
// server's output root.
//
//	GET    /healthz
//	GET    /metrics
//	GET    /v1/series
//	GET    /v1/packages
//	GET    /v1/manufacturers
//	POST   /v1/preview
//	POST   /v1/jobs
//	GET    /v1/jobs
//	GET    /v1/jobs/{id}
//	DELETE /v1/jobs/{id}
//	GET    /v1/jobs/{id}/files/*
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/atlantix-eda/aeda/pkg/observability"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of a pipeline Runner.
type Server struct {
	runner  *pipeline.Runner
	root    string
	logger  *log.Logger
	metrics *observability.Metrics
	router  chi.Router

	// ctx outlives individual requests; jobs run under it.
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*jobEntry
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and job logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics serves m at /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a server that runs jobs with runner and writes their output
// below root.
func New(runner *pipeline.Runner, root string, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		runner: runner,
		root:   root,
		logger: log.New(io.Discard),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*jobEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/series", s.handleSeries)
		r.Get("/packages", s.handlePackages)
		r.Get("/manufacturers", s.handleManufacturers)
		r.Post("/preview", s.handlePreview)

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", s.handleCreateJob)
			r.Get("/", s.handleListJobs)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetJob)
				r.Delete("/", s.handleCancelJob)
				r.Get("/files/*", s.handleJobFile)
			})
		})
	})
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and cancels running jobs.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close cancels every running job and waits for them to stop.
func (s *Server) Close() {
	s.cancel()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.jobs {
		<-e.job.Done()
	}
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
