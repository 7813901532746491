package server

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"city-group-router/internal/database"
	"city-group-router/internal/handlers"
	"city-group-router/web"
)

// Server wraps the HTTP server and all dependencies
type Server struct {
	httpServer *http.Server
	handler    *handlers.Handler
	db         database.DataStore
	listener   net.Listener
	addr       string
}

// Config holds server configuration
type Config struct {
	Addr string // e.g., "127.0.0.1:8080" or "127.0.0.1:0" for random port
}

// New creates a server over an open store (does not start it)
func New(cfg Config, db database.DataStore) (*Server, error) {
	templates, err := loadTemplates(web.Templates)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	handler := &handlers.Handler{DB: db, Templates: templates}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(handler, web.Static),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		db:         db,
		addr:       cfg.Addr,
	}, nil
}

// Start starts the server and returns the actual address (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("[LEDGER] Starting server on %s", actualAddr)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] Server error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// NewRouter configures all HTTP routes
func NewRouter(handler *handlers.Handler, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(Compression)

	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))
	r.Get("/", handler.HandleRunsPage)
	r.Get("/runs/{id}", handler.HandleRunPage)
	r.Get("/health", handler.HandleHealthCheck)
	r.Route("/v1/runs", func(r chi.Router) {
		r.Get("/", handler.HandleListRuns)
		r.Get("/{id}", handler.HandleGetRun)
		r.Delete("/{id}", handler.HandleDeleteRun)
	})

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		log.Printf("[HTTP] %s %s %d %v req=%s", r.Method, r.URL.Path, lrw.statusCode, duration, chimid.GetReqID(r.Context()))
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
