package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(IPRateLimitMiddleware(ctx, rps, burst, slog.New(slog.NewTextHandler(io.Discard, nil))))
	router.POST("/v1/visitors", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	})
	return router
}

func postFrom(router *gin.Engine, forwardedFor string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/visitors", nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestIPRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 10.0, 20)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusCreated, postFrom(router, "").Code)
	}
}

func TestIPRateLimitMiddleware_BlocksRequestsExceedingBurst(t *testing.T) {
	router := newRateLimitedRouter(t, 1.0, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusCreated, postFrom(router, "").Code)
	}

	w := postFrom(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestIPRateLimitMiddleware_IndependentLimitsPerIP(t *testing.T) {
	router := newRateLimitedRouter(t, 1.0, 1)

	assert.Equal(t, http.StatusCreated, postFrom(router, "203.0.113.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, postFrom(router, "203.0.113.1").Code)
	assert.Equal(t, http.StatusCreated, postFrom(router, "203.0.113.2").Code)
}

func TestIPRateLimitMiddleware_RespectsConfiguredBurst(t *testing.T) {
	tests := []struct {
		name              string
		rps               float64
		burst             int
		requestsToSend    int
		expectedSuccesses int
	}{
		{name: "strict", rps: 0.5, burst: 1, requestsToSend: 4, expectedSuccesses: 1},
		{name: "default", rps: 2.0, burst: 5, requestsToSend: 10, expectedSuccesses: 5},
		{name: "permissive", rps: 10.0, burst: 20, requestsToSend: 25, expectedSuccesses: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRateLimitedRouter(t, tt.rps, tt.burst)

			successes := 0
			for i := 0; i < tt.requestsToSend; i++ {
				if postFrom(router, "198.51.100.7").Code == http.StatusCreated {
					successes++
				}
			}
			assert.Equal(t, tt.expectedSuccesses, successes)
		})
	}
}

func TestIPRateLimiterStore_Sweep(t *testing.T) {
	store := &ipRateLimiterStore{rps: 10.0, burst: 20}

	store.getLimiter("192.168.1.100")
	store.getLimiter("192.168.1.101")

	val, ok := store.limiters.Load("192.168.1.100")
	assert.True(t, ok)
	entry := val.(*ipRateLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now().Add(-2 * time.Hour)
	entry.mu.Unlock()

	store.sweep(time.Now().Add(-time.Hour))

	_, ok = store.limiters.Load("192.168.1.100")
	assert.False(t, ok)
	_, ok = store.limiters.Load("192.168.1.101")
	assert.True(t, ok)
}

func TestIPRateLimiterStore_ReusesLimiter(t *testing.T) {
	store := &ipRateLimiterStore{rps: 1.0, burst: 1}
	assert.Same(t, store.getLimiter("10.0.0.1"), store.getLimiter("10.0.0.1"))
}
