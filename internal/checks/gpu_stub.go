//go:build !cuda

package checks

import (
	"fmt"

	"autosleep/internal/check"
)

// NewGpuCheck is the stub for builds without CUDA support. Configuring a gpu
// check on such a build is a configuration error.
func NewGpuCheck(_ string, _ check.Options) (check.Activity, error) {
	return nil, fmt.Errorf("gpu check requires a build with CUDA support (build tag cuda)")
}
