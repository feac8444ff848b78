package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLimiter(limit int, window time.Duration) (*RateLimiter, *time.Time) {
	now := time.Now()
	rl := NewRateLimiter(limit, window)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	t.Run("limit requests pass, next is rejected", func(t *testing.T) {
		rl, _ := testLimiter(10, time.Hour)
		for i := 0; i < 10; i++ {
			assert.True(t, rl.Allow("41.90.1.1"), "request %d should pass", i+1)
		}
		assert.False(t, rl.Allow("41.90.1.1"), "11th request should be rejected")
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl, _ := testLimiter(2, time.Hour)
		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
	})

	t.Run("window elapse resets the counter", func(t *testing.T) {
		rl, now := testLimiter(2, time.Hour)
		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))

		*now = now.Add(time.Hour)
		assert.True(t, rl.Allow("a"))
	})

	t.Run("stale keys swept so the map stays bounded", func(t *testing.T) {
		rl, now := testLimiter(10, time.Hour)
		for i := 0; i < 100; i++ {
			rl.Allow(fmt.Sprintf("key-%d", i))
		}
		assert.Len(t, rl.visitors, 100)

		*now = now.Add(time.Hour)
		rl.Allow("fresh")
		assert.Len(t, rl.visitors, 1)
	})
}

func TestIsCrawler(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		expected  bool
	}{
		{"googlebot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", true},
		{"storebot", "Mozilla/5.0 (compatible; Storebot-Google/1.0)", true},
		{"adsbot mixed case", "ADSBOT-GOOGLE (+http://www.google.com/adsbot.html)", true},
		{"bingbot", "Mozilla/5.0 (compatible; bingbot/2.0)", true},
		{"pinterest", "Pinterestbot/1.0 (+https://www.pinterest.com/bot.html)", true},
		{"browser", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", false},
		{"curl", "curl/8.4.0", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCrawler(tt.userAgent))
		})
	}
}
