package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/cache"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/config"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/erp"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/handler"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/logging"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/repository"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/router"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/scheduler"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/shopify"
	syncengine "github.com/Sphere-Cloud/SyncPoShopify/internal/sync"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log := logging.New(cfg.Log)
	log.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	}).Info("Starting SyncPoShopify")

	// Initialize cache store based on config
	var store repository.Store
	var err error
	switch cfg.CacheDB.Type {
	case "postgres", "postgresql":
		store, err = repository.NewPostgresStore(cfg.CacheDB.PostgresDSN(), log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize PostgreSQL cache")
		}
		log.Info("PostgreSQL cache store initialized")
	case "mysql":
		store, err = repository.NewMySQLStore(cfg.CacheDB.MySQLDSN(), log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize MySQL cache")
		}
		log.Info("MySQL cache store initialized")
	default: // sqlite
		store, err = repository.NewSQLiteStore(cfg.CacheDB.Path, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize SQLite cache")
		}
		log.Info("SQLite cache store initialized")
	}
	defer store.Close()

	// Initialize Redis client (optional; enables cross-replica locking and
	// the shared summary cache)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("Redis connection failed, falling back to in-process mode")
			redisClient = nil
		} else {
			log.Info("Redis client initialized")
		}
		cancel()
	}

	var locker *redislock.Client
	var summaries cache.SummaryStore
	if redisClient != nil {
		locker = redislock.New(redisClient)
		summaries = cache.NewRedisSummaryStore(redisClient, 24*time.Hour)
	} else {
		summaries = cache.NewMemorySummaryStore()
	}

	// Wire the sync engine
	extractor := erp.NewExtractor(cfg.ERP, log)
	remote := shopify.NewClient(cfg.Shopify, log)
	detector := syncengine.NewDetector(cfg.Sync.Locations, cfg.Sync.Threshold, log)
	pacer := syncengine.NewIntervalPacer(cfg.Sync.PaceInterval)
	dispatcher := syncengine.NewDispatcher(remote, pacer, log)
	orch := syncengine.NewOrchestrator(extractor, store, detector, dispatcher, store, store, cfg.Sync.CycleTimeout, log)

	sched := scheduler.New(orch, summaries, locker, scheduler.Config{
		Interval: cfg.Sync.ScheduleInterval,
		LockTTL:  cfg.Sync.LockTTL,
	}, log)
	sched.Start()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(cfg.App.Version, store)
	syncHandler := handler.NewSyncHandler(sched, summaries, store)

	// Create router
	r := router.New(router.Config{
		HealthHandler: healthHandler,
		SyncHandler:   syncHandler,
		AdminKey:      cfg.App.AdminKey,
		Log:           log,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.WithField("address", cfg.Server.Address()).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	// Stop the scheduler first so no cycle starts mid-shutdown
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown error")
	}

	log.Info("Server stopped")
}
