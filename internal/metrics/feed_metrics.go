package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedGenerations counts full feed document builds (cache misses).
	FeedGenerations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_generations_total",
		Help: "The total number of merchant feed documents generated",
	})

	// FeedCacheHits counts feed requests served from the cache slot.
	FeedCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_cache_hits_total",
		Help: "The total number of feed requests served from cache",
	})

	// FeedRateLimited counts feed requests rejected by the rate limiter.
	FeedRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_rate_limited_total",
		Help: "The total number of feed requests rejected with 429",
	})

	// CatalogRefreshes counts catalog snapshot rebuilds.
	CatalogRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_snapshot_refreshes_total",
		Help: "The total number of catalog snapshot rebuilds",
	})

	// OrdersCreated counts checkout submissions accepted.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "The total number of orders created",
	})
)
