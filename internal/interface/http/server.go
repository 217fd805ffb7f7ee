// Package http implements the REST interface for Study Badges Hub.
// It maps the engine's typed results and errors onto a uniform response
// envelope so callers see one shape for every outcome.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/studyhub/study-badges-hub/internal/application/command"
	"github.com/studyhub/study-badges-hub/internal/application/query"
	"github.com/studyhub/study-badges-hub/internal/infrastructure/persistence/redis"
	"github.com/studyhub/study-badges-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains all dependencies required by HTTP handlers.
// Everything is passed in explicitly - the handlers hold no globals.
type Dependencies struct {
	// UserBadges - badge-state read handler.
	UserBadges *query.GetUserBadgesHandler

	// Leaderboard - leaderboard read handler.
	Leaderboard *query.GetLeaderboardHandler

	// CheckAndAward - award-pass command handler.
	CheckAndAward *command.CheckAndAwardHandler

	// LeaderboardCache - optional hot cache for leaderboard responses.
	// nil disables caching; reads fall through to the aggregator.
	LeaderboardCache *redis.LeaderboardCache

	// RecentBadgesLimit - size of the recent-badges window (0 = handler default).
	RecentBadgesLimit int

	// Log - structured logger.
	Log *logger.Logger
}

// validate checks that the required dependencies are present.
func (d Dependencies) validate() error {
	if d.UserBadges == nil {
		return errors.New("http: UserBadges handler is required")
	}
	if d.Leaderboard == nil {
		return errors.New("http: Leaderboard handler is required")
	}
	if d.CheckAndAward == nil {
		return errors.New("http: CheckAndAward handler is required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP server for the badge engine API.
type Server struct {
	cfg    Config
	deps   Dependencies
	log    *logger.Logger
	server *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Dependencies) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	log := deps.Log
	if log == nil {
		log = logger.Default()
	}

	s := &Server{
		cfg:  cfg,
		deps: deps,
		log:  log.With(logger.Component("http")),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.server = &http.Server{
		Addr:           cfg.Address(),
		Handler:        s.withMiddleware(mux),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	return s, nil
}

// registerRoutes wires URL patterns to handlers.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/users/{id}/badges", s.handleGetUserBadges)
	mux.HandleFunc("POST /api/v1/users/{id}/badges/check", s.handleCheckAndAward)
	mux.HandleFunc("GET /api/v1/leaderboard", s.handleGetLeaderboard)
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("http server starting", logger.String("address", s.cfg.Address()))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.server.Shutdown(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// withMiddleware wraps the mux with request ID, logging and panic recovery.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		reqLog := s.log.WithRequestID(requestID)
		ctx := logger.WithContext(r.Context(), reqLog)

		defer func() {
			if rec := recover(); rec != nil {
				reqLog.Error("panic recovered",
					logger.Any("panic", rec),
					logger.String("stack", string(debug.Stack())),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		reqLog.Info("request handled",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.status),
			logger.Latency(time.Since(start)),
		)
	})
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader records the status code.
func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
