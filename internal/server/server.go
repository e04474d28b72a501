// Package server is the HTTP API for identity and log entries.
package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/studenttracker/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Options configures the router.
type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
}

// Server wires HTTP handlers.
type Server struct {
	auth   service.AuthService
	logs   service.LogService
	logger *slog.Logger
}

// New creates the API router with middleware.
func New(auth service.AuthService, logs service.LogService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{auth: auth, logs: logs, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(opts.CORSOrigins))

	r.Get("/health", srv.handleHealth)
	r.Post("/auth/signup", srv.handleSignUp)
	r.Post("/oauth2/token", srv.handleToken)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))
		r.Get("/logs", srv.handleListLogs)
		r.Post("/logs", srv.handleCreateLog)
		r.Post("/auth/signout", srv.handleSignOut)
		r.Get("/auth/me", srv.handleMe)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Api-Key", "X-Amz-Date", "X-Amz-Security-Token"},
		AllowCredentials: true,
	}).Handler
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
