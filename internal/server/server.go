// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"creatorpulse/internal/config"
	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
	"creatorpulse/internal/server/handlers"
	"creatorpulse/internal/service/collector"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	authorStore author.Store,
	engine metrics.Engine,
	collectSvc *collector.Service,
	collectorCfg config.CollectorConfig,
	analyticsCfg config.AnalyticsConfig,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	authorHandler := handlers.NewAuthorHandler(authorStore)
	accountHandler := handlers.NewAccountHandler(authorStore)
	analyticsHandler := handlers.NewAnalyticsHandler(engine, authorStore, analyticsCfg.DefaultPeriod)
	collectHandler := handlers.NewCollectHandler(collectSvc, authorStore, collectorCfg.DefaultWindowDays)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Authors API
			r.Route("/authors", func(r chi.Router) {
				r.Get("/", authorHandler.ListAuthors)
				r.Post("/", authorHandler.CreateAuthor)
				r.Get("/{id}", authorHandler.GetAuthor)
				r.Put("/{id}", authorHandler.UpdateAuthor)
				r.Delete("/{id}", authorHandler.DeleteAuthor)
			})

			// Social accounts API
			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", accountHandler.ListAccounts)
				r.Post("/", accountHandler.CreateAccount)
				r.Get("/{id}", accountHandler.GetAccount)
				r.Put("/{id}", accountHandler.UpdateAccount)
				r.Delete("/{id}", accountHandler.DeleteAccount)
			})

			// Analytics API
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/comparative", analyticsHandler.GetComparativeAnalytics)
				r.Get("/{id}", analyticsHandler.GetAccountAnalytics)
			})

			// Collection API
			r.Post("/collect/{id}", collectHandler.CollectAccount)
		})
	})

	// WebSocket endpoint for streaming collection run progress
	router.Get("/ws/collect/{runID}", handlers.CollectProgressHandler(natsConn, collectorCfg.EventsTopic))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
