package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appmonitoring "github.com/supplychain/backend/internal/application/monitoring"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

type rateLimitHits struct {
	mu   sync.Mutex
	hits []appmonitoring.RateLimitHit
}

func (r *rateLimitHits) RecordRateLimit(_ context.Context, hit appmonitoring.RateLimitHit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, hit)
}

func (r *rateLimitHits) all() []appmonitoring.RateLimitHit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]appmonitoring.RateLimitHit(nil), r.hits...)
}

// newTestLimiter returns a limiter driven by a manual clock
func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(limit, window)
	limiter.now = func() time.Time { return now }
	t.Cleanup(limiter.Stop)
	return limiter, &now
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 5, time.Minute)

		for i := 1; i <= 5; i++ {
			allowed, count := limiter.Allow("client1")
			assert.True(t, allowed, "request %d should be allowed", i)
			assert.Equal(t, i, count)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 3, time.Minute)

		for i := 0; i < 3; i++ {
			allowed, _ := limiter.Allow("client2")
			require.True(t, allowed)
		}

		allowed, count := limiter.Allow("client2")
		assert.False(t, allowed)
		assert.Equal(t, 4, count)
		assert.Equal(t, 0, limiter.Remaining("client2"))
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, time.Minute)

		allowed, _ := limiter.Allow("clientA")
		assert.True(t, allowed)
		allowed, _ = limiter.Allow("clientA")
		assert.False(t, allowed)

		allowed, _ = limiter.Allow("clientB")
		assert.True(t, allowed)
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter, now := newTestLimiter(t, 2, time.Minute)

		limiter.Allow("client3")
		limiter.Allow("client3")
		allowed, _ := limiter.Allow("client3")
		require.False(t, allowed)

		*now = now.Add(time.Minute)

		allowed, count := limiter.Allow("client3")
		assert.True(t, allowed)
		assert.Equal(t, 1, count)
		assert.Equal(t, 1, limiter.Remaining("client3"))
	})

	t.Run("unknown client has the full allowance", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 7, time.Minute)

		assert.Equal(t, 7, limiter.Remaining("nobody"))
		assert.Equal(t, 7, limiter.Limit())
		assert.Equal(t, time.Minute, limiter.Window())
	})

	t.Run("concurrent access", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 50, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowedCount := 0
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := limiter.Allow("shared"); ok {
					mu.Lock()
					allowedCount++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, allowedCount)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		limiter.Stop()
		assert.NotPanics(t, limiter.Stop)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(limiter *RateLimiter, recorder RateLimitRecorder, before ...gin.HandlerFunc) *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.Use(before...)
		router.Use(RateLimit(limiter, recorder))
		router.GET("/api/v1/inventory/products", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("sets rate limit headers", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 10, time.Minute)
		router := newRouter(limiter, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/inventory/products", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejects and records over the limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 2, time.Minute)
		recorder := &rateLimitHits{}
		router := newRouter(limiter, recorder)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/inventory/products", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/inventory/products", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), dto.ErrCodeRateLimited)
		assert.Contains(t, w.Body.String(), "Too many requests. Please try again later.")

		hits := recorder.all()
		require.Len(t, hits, 1)
		assert.Equal(t, "192.0.2.1", hits[0].IPAddress)
		assert.Equal(t, "/api/v1/inventory/products", hits[0].Endpoint)
		assert.Equal(t, 3, hits[0].Count)
		assert.Equal(t, 2, hits[0].Threshold)
		assert.Equal(t, time.Minute, hits[0].Period)
		assert.Nil(t, hits[0].UserID)
	})

	t.Run("records the resolved identity", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 0, time.Minute)
		recorder := &rateLimitHits{}
		userID := uuid.New()
		router := newRouter(limiter, recorder, func(c *gin.Context) {
			c.Set(UserIDKey, userID)
			c.Next()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/inventory/products", nil))

		require.Equal(t, http.StatusTooManyRequests, w.Code)
		hits := recorder.all()
		require.Len(t, hits, 1)
		require.NotNil(t, hits[0].UserID)
		assert.Equal(t, userID, *hits[0].UserID)
	})

	t.Run("nil recorder only rejects", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 0, time.Minute)
		router := newRouter(limiter, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/inventory/products", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}
