package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	newCacheAt := func(start time.Time) (*MemoryCache, *time.Time) {
		now := start
		c := NewMemoryCache(time.Hour)
		c.now = func() time.Time { return now }
		return c, &now
	}

	t.Run("empty cache misses", func(t *testing.T) {
		c, _ := newCacheAt(time.Now())
		_, ok := c.Get(ctx)
		assert.False(t, ok)
	})

	t.Run("fresh document is served unchanged", func(t *testing.T) {
		c, now := newCacheAt(time.Now())
		c.Set(ctx, "<rss>doc</rss>")

		*now = now.Add(59 * time.Minute)
		doc, ok := c.Get(ctx)
		require.True(t, ok)
		assert.Equal(t, "<rss>doc</rss>", doc)
	})

	t.Run("expired document misses", func(t *testing.T) {
		c, now := newCacheAt(time.Now())
		c.Set(ctx, "<rss>doc</rss>")

		*now = now.Add(time.Hour)
		_, ok := c.Get(ctx)
		assert.False(t, ok)
	})

	t.Run("set replaces the slot wholly", func(t *testing.T) {
		c, _ := newCacheAt(time.Now())
		c.Set(ctx, "<rss>v1</rss>")
		c.Set(ctx, "<rss>v2</rss>")

		doc, ok := c.Get(ctx)
		require.True(t, ok)
		assert.Equal(t, "<rss>v2</rss>", doc)
	})

	t.Run("clear empties the slot", func(t *testing.T) {
		c, _ := newCacheAt(time.Now())
		c.Set(ctx, "<rss>doc</rss>")
		c.Clear(ctx)

		_, ok := c.Get(ctx)
		assert.False(t, ok)
	})
}
