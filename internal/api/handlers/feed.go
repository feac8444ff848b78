package handlers

import (
	"context"
	"net/http"

	"duka/internal/feed"
	"duka/internal/logger"
	"duka/internal/metrics"

	"github.com/gin-gonic/gin"
)

const feedCacheControl = "public, max-age=3600, stale-while-revalidate=86400"

// DocumentGenerator produces the feed document on a cache miss.
type DocumentGenerator interface {
	Generate(ctx context.Context) (string, error)
}

type FeedHandler struct {
	generator DocumentGenerator
	cache     feed.CacheStore
	limiter   *feed.RateLimiter
	logger    *logger.Logger
}

func NewFeedHandler(generator DocumentGenerator, cache feed.CacheStore, limiter *feed.RateLimiter, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		generator: generator,
		cache:     cache,
		limiter:   limiter,
		logger:    logger,
	}
}

// Get serves the Google Merchant feed. Order matters: the rate limit is
// checked before any catalog read, then the cache slot, then generation.
func (h *FeedHandler) Get(c *gin.Context) {
	if !feed.IsCrawler(c.Request.UserAgent()) {
		if !h.limiter.Allow(c.ClientIP()) {
			metrics.FeedRateLimited.Inc()
			c.Header("Retry-After", "3600")
			c.String(http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			return
		}
	}

	ctx := c.Request.Context()

	if doc, ok := h.cache.Get(ctx); ok {
		metrics.FeedCacheHits.Inc()
		c.Header("Cache-Control", feedCacheControl)
		c.Data(http.StatusOK, "application/xml", []byte(doc))
		return
	}

	doc, err := h.generator.Generate(ctx)
	if err != nil {
		h.logger.Error("feed: generation failed: %v", err)
		c.Data(http.StatusInternalServerError, "application/xml", []byte(feed.ErrorDocument))
		return
	}

	h.cache.Set(ctx, doc)
	metrics.FeedGenerations.Inc()

	c.Header("Cache-Control", feedCacheControl)
	c.Data(http.StatusOK, "application/xml", []byte(doc))
}
