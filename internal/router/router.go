package router

import (
	"github.com/Sphere-Cloud/SyncPoShopify/internal/handler"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Config holds the configuration for creating a router.
type Config struct {
	HealthHandler *handler.HealthHandler
	SyncHandler   *handler.SyncHandler
	AdminKey      string
	Log           logrus.FieldLogger
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.NewRecovery(cfg.Log))
	r.Use(middleware.RequestID)
	r.Use(middleware.NewLogging(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-Admin-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.HealthHandler != nil {
		r.Get("/api/status", cfg.HealthHandler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check endpoints
		if cfg.HealthHandler != nil {
			r.Get("/health", cfg.HealthHandler.Health)
			r.Get("/ready", cfg.HealthHandler.Ready)
		}

		// Sync endpoints (admin key required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAdminKey(cfg.AdminKey))

			if cfg.SyncHandler != nil {
				r.Route("/sync", func(r chi.Router) {
					r.Post("/run", cfg.SyncHandler.RunNow)
					r.Get("/last", cfg.SyncHandler.LastSummary)
					r.Get("/logs", cfg.SyncHandler.Logs)
				})

				r.Route("/admin", func(r chi.Router) {
					r.Get("/stats", cfg.SyncHandler.Stats)
				})
			}
		})
	})

	return r
}
