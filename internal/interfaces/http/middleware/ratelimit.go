package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appmonitoring "github.com/supplychain/backend/internal/application/monitoring"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// RateLimiter is an in-memory fixed-window limiter keyed by client
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	count     int
	lastReset time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// Idle clients are evicted in the background until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(window * 2)
	return rl
}

// Limit returns the number of requests allowed per window
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Window returns the limiter window
func (rl *RateLimiter) Window() time.Duration {
	return rl.window
}

// Stop ends background eviction
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, c := range rl.clients {
				if now.Sub(c.lastReset) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow counts one request from key and reports whether it fits the
// window, along with the number of requests seen in the window
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, exists := rl.clients[key]
	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &client{count: 1, lastReset: now}
		return rl.limit > 0, 1
	}

	c.count++
	return c.count <= rl.limit, c.count
}

// Remaining returns the number of requests key may still send this window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists || rl.now().Sub(c.lastReset) >= rl.window {
		return rl.limit
	}
	return max(rl.limit-c.count, 0)
}

// RateLimitRecorder receives every rejected request
type RateLimitRecorder interface {
	RecordRateLimit(ctx context.Context, hit appmonitoring.RateLimitHit)
}

// RateLimit rejects clients exceeding the limiter with 429 and reports
// each rejection to recorder. A nil recorder only rejects.
func RateLimit(limiter *RateLimiter, recorder RateLimitRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, count := limiter.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		if !allowed {
			if recorder != nil {
				recorder.RecordRateLimit(c.Request.Context(), appmonitoring.RateLimitHit{
					IPAddress: key,
					UserID:    contextUserID(c),
					Endpoint:  c.Request.URL.Path,
					Count:     count,
					Threshold: limiter.Limit(),
					Period:    limiter.Window(),
				})
			}
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			abortWithError(c, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}

		c.Next()
	}
}

// contextUserID returns the authenticated identity, if one was resolved
// before the limiter ran
func contextUserID(c *gin.Context) *uuid.UUID {
	id, ok := UserID(c)
	if !ok {
		return nil
	}
	return &id
}
