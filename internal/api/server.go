package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fwguard/fwguard/internal/log"
)

// Server represents the API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a new API server with all routes wired to the handler.
func NewServer(bindAddr string, h *Handler) *Server {
	s := &Server{
		router: chi.NewRouter(),
	}

	// Setup middleware
	s.router.Use(Recovery)
	s.router.Use(Logger)
	s.router.Use(PrivateSubnetOnly)

	// Setup routes
	s.setupRoutes(h)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         bindAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(h *Handler) {
	s.router.Route("/api", func(r chi.Router) {
		// Status
		r.Get("/status", h.GetStatus)

		// Ruleset inspection
		r.Route("/ruleset", func(r chi.Router) {
			r.Get("/preview", h.GetRulesetPreview)
			r.Get("/live", h.GetRulesetLive)
			r.Get("/diff", h.GetRulesetDiff)
		})

		// Snapshot inventory
		r.Get("/snapshots", h.GetSnapshots)
	})

	// Prometheus metrics
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoint at root
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Start starts the API server
func (s *Server) Start() error {
	log.Infof("[API] Starting server on %s", s.httpServer.Addr)
	log.Infof("[API] Example: curl http://%s/api/status", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully stops the API server
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}
