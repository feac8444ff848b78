package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"duka/internal/api/handlers"
	"duka/internal/api/middleware"
	"duka/internal/catalog"
	"duka/internal/config"
	"duka/internal/database"
	"duka/internal/events"
	"duka/internal/feed"
	"duka/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher *events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	// Shared services
	catalogService := catalog.NewService(db.DB, logger, cfg.CatalogSnapshotTTL)

	generator := feed.NewGenerator(db.DB, logger, feed.Options{
		StoreName:        cfg.StoreName,
		StoreURL:         cfg.StoreURL,
		StoreDescription: cfg.StoreDescription,
		Currency:         cfg.Currency,
		StorageBaseURL:   cfg.StorageBaseURL,
		PlaceholderImage: cfg.PlaceholderImage,
	})
	feedCache := newFeedCache(cfg, logger)
	limiter := feed.NewRateLimiter(cfg.FeedRateLimit, cfg.FeedRateWindow)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(db.DB, logger, publisher, catalogService)
	categoryHandler := handlers.NewCategoryHandler(db.DB, logger, publisher, catalogService)
	curationHandler := handlers.NewCurationHandler(db.DB, logger, publisher, catalogService)
	orderHandler := handlers.NewOrderHandler(db.DB, logger)
	blogHandler := handlers.NewBlogHandler(db.DB, logger)
	settingsHandler := handlers.NewSettingsHandler(db.DB, logger)
	storefrontHandler := handlers.NewStorefrontHandler(catalogService, logger)
	feedHandler := handlers.NewFeedHandler(generator, feedCache, limiter, logger)

	// Merchant feed
	router.GET("/feed.xml", feedHandler.Get)
	router.GET("/merchant/feed.xml", feedHandler.Get)

	// Observability
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Storefront reads
		storefront := v1.Group("/storefront")
		{
			storefront.GET("/home", storefrontHandler.Home)
			storefront.GET("/products", storefrontHandler.Products)
			storefront.GET("/products/:slug", storefrontHandler.Product)
		}

		// Products (admin)
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
			products.PUT("/:id/categories", productHandler.SetCategories)
		}

		// Shelf curation (admin)
		v1.PUT("/curation/:shelf", curationHandler.Reorder)

		// Categories
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		// Orders
		orders := v1.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("", orderHandler.Create)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
		}

		// Blog
		blog := v1.Group("/blog")
		{
			blog.GET("", blogHandler.List)
			blog.GET("/:id", blogHandler.Get)
			blog.POST("", blogHandler.Create)
			blog.PUT("/:id", blogHandler.Update)
			blog.DELETE("/:id", blogHandler.Delete)
		}

		// Settings
		v1.GET("/settings", settingsHandler.List)
		v1.PUT("/settings", settingsHandler.Update)
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

// newFeedCache picks the redis-backed slot when REDIS_URL is set so
// multiple API instances and the worker share one document; otherwise
// the in-process slot.
func newFeedCache(cfg *config.Config, logger *logger.Logger) feed.CacheStore {
	if cfg.RedisURL != "" {
		cache, err := feed.NewRedisCache(cfg.RedisURL, cfg.FeedCacheTTL, logger)
		if err == nil {
			return cache
		}
		logger.Error("feed cache: invalid REDIS_URL, falling back to memory: %v", err)
	}
	return feed.NewMemoryCache(cfg.FeedCacheTTL)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      cors.Default().Handler(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter exposes the Gin router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
