// Package hostmetrics samples host CPU, memory and disk utilization.
package hostmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/supplychain/backend/internal/application/monitoring"
)

// DefaultCPUInterval is how long CPU usage is measured over
const DefaultCPUInterval = time.Second

// Sampler reads utilization through gopsutil
type Sampler struct {
	diskPath    string
	cpuInterval time.Duration
}

// NewSampler creates a Sampler measuring disk usage of the filesystem
// mounted at diskPath
func NewSampler(diskPath string, cpuInterval time.Duration) *Sampler {
	if diskPath == "" {
		diskPath = "/"
	}
	if cpuInterval <= 0 {
		cpuInterval = DefaultCPUInterval
	}
	return &Sampler{diskPath: diskPath, cpuInterval: cpuInterval}
}

// Sample implements monitoring.HostSampler
func (s *Sampler) Sample(ctx context.Context) (monitoring.HostUsage, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, s.cpuInterval, false)
	if err != nil {
		return monitoring.HostUsage{}, fmt.Errorf("sample cpu: %w", err)
	}
	if len(cpuPercents) == 0 {
		return monitoring.HostUsage{}, fmt.Errorf("sample cpu: no readings")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return monitoring.HostUsage{}, fmt.Errorf("sample memory: %w", err)
	}

	du, err := disk.UsageWithContext(ctx, s.diskPath)
	if err != nil {
		return monitoring.HostUsage{}, fmt.Errorf("sample disk %s: %w", s.diskPath, err)
	}

	return monitoring.HostUsage{
		CPU:    cpuPercents[0],
		Memory: vm.UsedPercent,
		Disk:   du.UsedPercent,
	}, nil
}

var _ monitoring.HostSampler = (*Sampler)(nil)
