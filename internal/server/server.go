package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/handler"
	"github.com/quillhq/quill/internal/server/middleware"
	"github.com/quillhq/quill/internal/service"
	"github.com/quillhq/quill/internal/store"
)

// Server is the top-level HTTP server. It owns the Chi router, the content
// store, the auth service, and the challenge verifier.
type Server struct {
	cfg        *config.Config
	router     chi.Router
	store      *store.Store
	auth       *service.AuthService
	challenge  *service.TurnstileVerifier
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server with all routes and middleware wired up. Call
// ListenAndServe to start accepting connections.
func New(cfg *config.Config, st *store.Store, auth *service.AuthService, challenge *service.TurnstileVerifier, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		auth:      auth,
		challenge: challenge,
		logger:    logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	// --- Root and health checks (no auth) ---
	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	loginHandler := handler.NewLoginHandler(s.auth, s.challenge)
	blogHandler := handler.NewBlogHandler(s.store)
	projectHandler := handler.NewProjectHandler(s.store)

	// --- API routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login/token", loginHandler.Token)

		r.Route("/blog", func(r chi.Router) {
			// Reads are public but widen to unpublished posts for the admin.
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(s.auth))
				r.Get("/", blogHandler.List)
				r.Get("/{blogID}", blogHandler.Get)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(s.auth))
				r.Post("/", blogHandler.Create)
				r.Patch("/{blogID}", blogHandler.Patch)
				r.Delete("/{blogID}", blogHandler.Delete)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Get("/{projectID}", projectHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(s.auth))
				r.Post("/", projectHandler.Create)
				r.Patch("/{projectID}", projectHandler.Patch)
				r.Delete("/{projectID}", projectHandler.Delete)
			})
		})
	})

	// --- OpenAPI docs at the operator-chosen path ---
	if s.cfg.Docs.Path != "" {
		docsHandler := handler.NewDocsHandler("")
		r.Get(s.cfg.Docs.Path, docsHandler.ServeSpec)
	}

	s.router = r
}

// handleRoot returns a small greeting so hitting the bare host confirms the
// API is alive.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Hello, this is the root of the API"}`))
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the content store is
// reachable, 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received, then drains in-flight requests before closing the store.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing store", "error", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
