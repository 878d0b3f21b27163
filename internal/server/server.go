// Package server exposes a single interview session and the report
// history over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Server owns one orchestrator. Finished reports are saved to the report
// repository as they are produced, including reports concluded by an
// expired deadline.
type Server struct {
	orch      *interview.Orchestrator
	reports   store.ReportRepo
	logger    *slog.Logger
	validator *validator.Validate

	mu        sync.Mutex
	saved     map[string]int // session ID -> report ID
	lastError string
}

// New creates a Server and its orchestrator. opts.Hooks.OnReport and
// opts.Hooks.OnError are chained after the server's own handling.
func New(completer interview.Completer, settings interview.Settings, reports store.ReportRepo, opts interview.Options) *Server {
	s := &Server{
		reports:   reports,
		logger:    opts.Logger,
		validator: validator.New(),
		saved:     map[string]int{},
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	onReport, onError := opts.Hooks.OnReport, opts.Hooks.OnError
	opts.Hooks.OnReport = func(r *report.Report) {
		s.saveReport(r)
		if onReport != nil {
			onReport(r)
		}
	}
	opts.Hooks.OnError = func(err error) {
		s.logger.Warn("deadline submission failed", "error", err)
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		if onError != nil {
			onError(err)
		}
	}
	s.orch = interview.New(completer, settings, opts)
	return s
}

// Orchestrator returns the session orchestrator.
func (s *Server) Orchestrator() *interview.Orchestrator {
	return s.orch
}

func (s *Server) saveReport(r *report.Report) {
	if s.reports == nil {
		return
	}
	// The request context may already be gone when a deadline concluded
	// the interview.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := report.Save(ctx, s.reports, r)
	if err != nil {
		s.logger.Error("failed to save report", "session_id", r.SessionID, "error", err)
		return
	}
	s.mu.Lock()
	s.saved[r.SessionID] = id
	s.mu.Unlock()
	s.logger.Info("report saved", "id", id, "session_id", r.SessionID, "score", r.ScoreLabel())
}

func (s *Server) reportID(sessionID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.saved[sessionID]
	return id, ok
}

// Handler returns the router with global middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the API routes.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.ListCategories)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Post("/category", s.SelectCategory)
			r.Post("/start", s.Start)
			r.Post("/answer", s.Answer)
			r.Post("/grade", s.RetryGrading)
			r.Post("/reset", s.Reset)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.ListReports)
			r.Get("/{id}", s.GetReport)
			r.Get("/{id}/{format}", s.ExportReport)
		})
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chiMiddleware.GetReqID(r.Context()),
		)
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// Completions can take as long as the LLM timeout.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.orch.Reset()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
