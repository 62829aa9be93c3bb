package hostmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSampler_Defaults(t *testing.T) {
	s := NewSampler("", 0)
	assert.Equal(t, "/", s.diskPath)
	assert.Equal(t, DefaultCPUInterval, s.cpuInterval)
}

func TestSampler_Sample(t *testing.T) {
	usage, err := NewSampler("/", 50*time.Millisecond).Sample(context.Background())
	require.NoError(t, err)

	for name, v := range map[string]float64{"cpu": usage.CPU, "memory": usage.Memory, "disk": usage.Disk} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
}

func TestSampler_MissingDisk(t *testing.T) {
	_, err := NewSampler("/definitely/not/mounted", 10*time.Millisecond).Sample(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample disk")
}
