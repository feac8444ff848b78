package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"duka/internal/catalog"
	"duka/internal/config"
	"duka/internal/database"
	"duka/internal/feed"
	"duka/internal/logger"
	"duka/internal/worker"
	"duka/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	catalogService := catalog.NewService(db.DB, logger, cfg.CatalogSnapshotTTL)

	// Without redis the feed slot lives in the API process; clearing this
	// local one is a no-op there, so shared invalidation needs REDIS_URL.
	var feedCache feed.CacheStore = feed.NewMemoryCache(cfg.FeedCacheTTL)
	if cfg.RedisURL != "" {
		if cache, err := feed.NewRedisCache(cfg.RedisURL, cfg.FeedCacheTTL, logger); err == nil {
			feedCache = cache
		} else {
			logger.Error("Invalid REDIS_URL, using local cache: %v", err)
		}
	}

	processor := processors.NewCatalogProcessor(catalogService, feedCache, logger)
	w := worker.New(cfg, logger, processor)

	go w.Start()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	w.Stop()
}
