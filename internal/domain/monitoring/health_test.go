package monitoring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWorst(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"none", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one warning", []Status{StatusHealthy, StatusWarning}, StatusWarning},
		{"critical wins", []Status{StatusWarning, StatusCritical, StatusHealthy}, StatusCritical},
		{"offline counts as critical", []Status{StatusOffline, StatusWarning}, StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Worst(tt.statuses...))
		})
	}
}

func TestUsageStatus(t *testing.T) {
	assert.Equal(t, StatusHealthy, UsageStatus(10, 79.9))
	assert.Equal(t, StatusWarning, UsageStatus(10, 80))
	assert.Equal(t, StatusCritical, UsageStatus(81, 95))
	assert.Equal(t, StatusCritical, UsageStatus(99, 10))
	assert.Equal(t, StatusHealthy, UsageStatus())
}

func TestCachePerformance(t *testing.T) {
	t.Run("hit rate from counters", func(t *testing.T) {
		c := &CachePerformance{HitCount: 85, TotalRequests: 100}
		c.Normalize()
		assert.True(t, c.HitRate.Equal(decimal.NewFromInt(85)), "got %s", c.HitRate)
	})

	t.Run("create without requests ignores the sent rate", func(t *testing.T) {
		c := &CachePerformance{HitRate: decimal.NewFromInt(42)}
		c.StampCreate(time.Now())
		c.Normalize()
		assert.True(t, c.HitRate.IsZero(), "got %s", c.HitRate)

		_, ok := HitRate(3, 0)
		assert.False(t, ok)
	})

	t.Run("update without requests keeps the stored rate", func(t *testing.T) {
		prev := &CachePerformance{HitRate: decimal.NewFromInt(70)}
		for _, sent := range []decimal.Decimal{decimal.Zero, decimal.RequireFromString("12.34")} {
			c := &CachePerformance{HitRate: sent}
			c.Inherit(prev)
			c.Normalize()
			assert.True(t, c.HitRate.Equal(decimal.NewFromInt(70)), "sent %s got %s", sent, c.HitRate)
		}
	})

	t.Run("update with requests recomputes", func(t *testing.T) {
		prev := &CachePerformance{HitRate: decimal.NewFromInt(70)}
		c := &CachePerformance{HitCount: 1, TotalRequests: 4, HitRate: decimal.NewFromInt(99)}
		c.Inherit(prev)
		c.Normalize()
		assert.True(t, c.HitRate.Equal(decimal.NewFromInt(25)), "got %s", c.HitRate)
	})

	t.Run("rate out of range", func(t *testing.T) {
		c := &CachePerformance{HitRate: decimal.NewFromInt(101)}
		assert.Error(t, c.Validate())
	})
}
