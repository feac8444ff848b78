package feed

import (
	"strings"
	"sync"
	"time"
)

// crawlerAllowList exempts shopping and search crawlers from rate
// limiting, matched as case-insensitive substrings of the user agent.
var crawlerAllowList = []string{
	"googlebot",
	"storebot-google",
	"adsbot-google",
	"google-merchant",
	"bingbot",
	"yandex",
	"duckduckbot",
	"baiduspider",
	"pinterestbot",
	"applebot",
	"facebookexternalhit",
}

type visitorWindow struct {
	count       int
	windowStart time.Time
}

// RateLimiter allows at most limit requests per window per client key.
// Counters live in a map swept of expired windows on every check, so the
// map stays bounded by the set of clients seen within one window.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	visitors map[string]*visitorWindow

	now func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		window:   window,
		visitors: make(map[string]*visitorWindow),
		now:      time.Now,
	}
}

// IsCrawler reports whether the user agent matches the allow-list.
func IsCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, pattern := range crawlerAllowList {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}

// Allow records a request from key and reports whether it is within the
// limit. The check must run before any catalog read so a rejected request
// never costs a regeneration.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	v, ok := rl.visitors[key]
	if !ok || now.Sub(v.windowStart) >= rl.window {
		rl.visitors[key] = &visitorWindow{count: 1, windowStart: now}
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.windowStart) >= rl.window {
			delete(rl.visitors, key)
		}
	}
}
