package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "KES", cfg.Currency)
	assert.Equal(t, time.Hour, cfg.FeedCacheTTL)
	assert.Equal(t, 10, cfg.FeedRateLimit)
	assert.Equal(t, time.Hour, cfg.FeedRateWindow)
	assert.Equal(t, 5*time.Minute, cfg.CatalogSnapshotTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CURRENCY", "USD")
	t.Setenv("FEED_CACHE_TTL", "30m")
	t.Setenv("FEED_RATE_LIMIT", "25")
	t.Setenv("STORE_NAME", "Mitumba Hub")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 30*time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, 25, cfg.FeedRateLimit)
	assert.Equal(t, "Mitumba Hub", cfg.StoreName)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("FEED_RATE_LIMIT", "lots")
	t.Setenv("FEED_CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.FeedRateLimit)
	assert.Equal(t, time.Hour, cfg.FeedCacheTTL)
}
