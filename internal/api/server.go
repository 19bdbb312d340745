// Package api serves the dashboard engine over HTTP as JSON, with a
// server-sent-events stream of snapshots for browser front-ends.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"careerdash/internal/dashboard"
)

// DefaultKeepAlive is the interval between SSE keep-alive comments.
const DefaultKeepAlive = 15 * time.Second

// Server exposes one engine over HTTP.
type Server struct {
	eng       *dashboard.Engine
	logger    *slog.Logger
	validator *validator.Validate
	keepAlive time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithKeepAlive sets the SSE keep-alive interval.
func WithKeepAlive(d time.Duration) Option {
	return func(s *Server) {
		s.keepAlive = d
	}
}

// NewServer creates a Server for eng.
func NewServer(eng *dashboard.Engine, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		eng:       eng,
		logger:    logger.With("component", "api"),
		validator: validator.New(),
		keepAlive: DefaultKeepAlive,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.GetDashboard)
		r.Get("/categories", s.GetCategories)
		r.Get("/events", s.Events)
		r.Post("/reload", s.Reload)

		r.Post("/tasks", s.AddTask)
		r.Post("/tasks/{id}/toggle", s.ToggleTask)
		r.Post("/tasks/{id}/retry", s.RetryTask)
		r.Delete("/tasks/{id}", s.DeleteTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
