//go:build cuda

package checks

import (
	"context"
	"fmt"

	"autosleep/internal/check"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// GpuCheck reports activity while any NVIDIA GPU's utilization exceeds a
// configured threshold.
type GpuCheck struct {
	name      string
	threshold float64
	nvml      nvmlInterface
}

// nvmlInterface covers the NVML calls the check uses (for mocking)
type nvmlInterface interface {
	Init() nvml.Return
	Shutdown() nvml.Return
	DeviceGetCount() (int, nvml.Return)
	DeviceGetUtilization(index int) (uint32, nvml.Return)
}

type realNVML struct{}

func (realNVML) Init() nvml.Return     { return nvml.Init() }
func (realNVML) Shutdown() nvml.Return { return nvml.Shutdown() }
func (realNVML) DeviceGetCount() (int, nvml.Return) {
	return nvml.DeviceGetCount()
}
func (realNVML) DeviceGetUtilization(index int) (uint32, nvml.Return) {
	device, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return 0, ret
	}
	util, ret := device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return 0, ret
	}
	return util.Gpu, ret
}

// NewGpuCheck constructs a GPU utilization activity check. Option: threshold
// (percent, default 5).
func NewGpuCheck(name string, opts check.Options) (check.Activity, error) {
	threshold, err := opts.Float("threshold", 5)
	if err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("option threshold must be between 0 and 100")
	}
	return &GpuCheck{name: name, threshold: threshold, nvml: realNVML{}}, nil
}

// Name returns the configured section name
func (c *GpuCheck) Name() string { return c.name }

// Check queries NVML for per-device utilization. An absent driver or zero
// devices means no GPU activity, not an error.
func (c *GpuCheck) Check(_ context.Context) (check.Result, error) {
	if ret := c.nvml.Init(); ret != nvml.SUCCESS {
		return check.Result{}, nil
	}
	defer c.nvml.Shutdown()

	count, ret := c.nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return check.Result{}, fmt.Errorf("failed to enumerate GPU devices: %s", nvml.ErrorString(ret))
	}

	for i := 0; i < count; i++ {
		util, ret := c.nvml.DeviceGetUtilization(i)
		if ret != nvml.SUCCESS {
			return check.Result{}, fmt.Errorf("failed to query GPU %d utilization: %s", i, nvml.ErrorString(ret))
		}
		if float64(util) > c.threshold {
			return check.Result{
				Active: true,
				Reason: fmt.Sprintf("GPU %d utilization %d%% above threshold %.0f%%", i, util, c.threshold),
			}, nil
		}
	}
	return check.Result{}, nil
}
