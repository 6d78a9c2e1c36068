package http

import (
	"bufio"
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"unilang/internal/app"
	"unilang/internal/config"
	"unilang/internal/translate"
	"unilang/internal/transport/ws"
)

// translator is the stateless side of the API: dataset targets and one-off lookups
type translator interface {
	ResolveResult(input, target string) translate.Result
	Targets() []string
}

// Server represents the HTTP server
type Server struct {
	server     *http.Server
	handler    http.Handler
	hub        *app.SessionHub
	translator translator
	config     *config.Config
	logger     *slog.Logger
	webFS      fs.FS
}

// NewServer creates a new HTTP server. webFS holds index.html and static/.
func NewServer(cfg *config.Config, hub *app.SessionHub, tr translator, logger *slog.Logger, webFS fs.FS) *Server {
	s := &Server{
		hub:        hub,
		translator: tr,
		config:     cfg,
		logger:     logger,
		webFS:      webFS,
	}

	// Set up routes
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	s.handler = s.middleware(mux)

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Sessions
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{sessionId}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{sessionId}", s.handleDeleteSession)

	// Submissions and views
	mux.HandleFunc("POST /api/sessions/{sessionId}/submissions", s.handleSubmit)
	mux.HandleFunc("GET /api/sessions/{sessionId}/submissions", s.handleListSubmissions)
	mux.HandleFunc("GET /api/sessions/{sessionId}/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/sessions/{sessionId}/countries", s.handleCountryRanking)
	mux.HandleFunc("GET /api/sessions/{sessionId}/countries/scores", s.handleCountryScores)
	mux.HandleFunc("GET /api/sessions/{sessionId}/map", s.handleMap)

	// Stateless
	mux.HandleFunc("GET /api/languages", s.handleLanguages)
	mux.HandleFunc("GET /api/translate", s.handleTranslate)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	// WebSocket
	wsHandler := ws.NewHandler(s.hub, s.config.Session.LeaderboardSize, s.logger)
	mux.Handle("GET /ws", wsHandler)

	// Static files and SPA
	mux.HandleFunc("GET /static/", s.handleStatic)
	mux.HandleFunc("GET /", s.handleSPA)
}

// middleware wraps the handler with logging and other middleware
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Add CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Log request (skip static files in production)
		if s.config.IsDevelopment() || !isStaticRequest(r.URL.Path) {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// isStaticRequest checks if the request is for a static file
func isStaticRequest(path string) bool {
	return strings.HasPrefix(path, "/static/")
}
