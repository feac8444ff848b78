package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"duka/internal/feed"
	"duka/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	document string
	err      error
	calls    int
}

func (s *stubGenerator) Generate(ctx context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.document, nil
}

func feedRouter(gen *stubGenerator, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewFeedHandler(
		gen,
		feed.NewMemoryCache(time.Hour),
		feed.NewRateLimiter(limit, time.Hour),
		logger.New("error"),
	)

	router := gin.New()
	router.GET("/feed.xml", handler.Get)
	return router
}

func requestFeed(router *gin.Engine, userAgent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/feed.xml", nil)
	req.RemoteAddr = "41.90.10.20:52100"
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFeedHandlerSuccess(t *testing.T) {
	gen := &stubGenerator{document: `<?xml version="1.0"?><rss version="2.0"><channel><title>Duka</title></channel></rss>`}
	router := feedRouter(gen, 10)

	w := requestFeed(router, "curl/8.4.0")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600, stale-while-revalidate=86400", w.Header().Get("Cache-Control"))
	assert.Equal(t, gen.document, w.Body.String())
}

func TestFeedHandlerCacheHit(t *testing.T) {
	gen := &stubGenerator{document: "<rss>doc</rss>"}
	router := feedRouter(gen, 10)

	first := requestFeed(router, "curl/8.4.0")
	second := requestFeed(router, "curl/8.4.0")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String(), "cached responses must be byte-identical")
	assert.Equal(t, 1, gen.calls, "second request must be served from cache")
	assert.Equal(t, "public, max-age=3600, stale-while-revalidate=86400", second.Header().Get("Cache-Control"))
}

func TestFeedHandlerRateLimit(t *testing.T) {
	gen := &stubGenerator{document: "<rss>doc</rss>"}
	router := feedRouter(gen, 10)

	for i := 0; i < 10; i++ {
		w := requestFeed(router, "curl/8.4.0")
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := requestFeed(router, "curl/8.4.0")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	// The rejection must not have cost a generation attempt.
	assert.Equal(t, 1, gen.calls)
}

func TestFeedHandlerCrawlerExempt(t *testing.T) {
	gen := &stubGenerator{document: "<rss>doc</rss>"}
	router := feedRouter(gen, 10)

	ua := "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	for i := 0; i < 15; i++ {
		w := requestFeed(router, ua)
		require.Equal(t, http.StatusOK, w.Code, "crawler request %d should never be limited", i+1)
	}
}

func TestFeedHandlerGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: feed.ErrEmptyCatalog}
	router := feedRouter(gen, 10)

	w := requestFeed(router, "curl/8.4.0")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Equal(t, feed.ErrorDocument, w.Body.String())
}

func TestFeedHandlerFailureNotCached(t *testing.T) {
	gen := &stubGenerator{err: feed.ErrEmptyCatalog}
	router := feedRouter(gen, 10)

	requestFeed(router, "curl/8.4.0")
	requestFeed(router, "curl/8.4.0")

	assert.Equal(t, 2, gen.calls, "failed generations must not populate the cache")
}
