// Package device discovers the optional device runtime used by the
// device-resident backend. The probe runs at most once per process; both
// success and failure are memoized, so repeated checks are cheap and always
// surface the same remediation message.
package device

import (
	"os"
	"sync"

	"github.com/datashard/materialize/pkg/errors"
	"github.com/datashard/materialize/pkg/logger"
	"go.uber.org/zap"
)

// DriverPathEnv overrides the driver search paths with a single location
const DriverPathEnv = "MATERIALIZE_CUDA_DRIVER"

var driverPaths = []string{
	"/dev/nvidiactl",
	"/dev/nvidia0",
	"/usr/lib/x86_64-linux-gnu/libcuda.so.1",
	"/usr/lib64/libcuda.so.1",
	"/usr/local/cuda/lib64/libcudart.so",
}

const remediation = `the device backend requires the NVIDIA CUDA driver; install it from

    https://developer.nvidia.com/cuda-downloads

or select a host backend such as "np", "ak", or "pd"`

type state struct {
	mu    sync.Mutex
	done  bool
	err   error
	probe func() error
}

var runtime = &state{probe: defaultProbe}

func defaultProbe() error {
	paths := driverPaths
	if override := os.Getenv(DriverPathEnv); override != "" {
		paths = []string{override}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			logger.Debug("device runtime found", zap.String("path", path))
			return nil
		}
	}
	return errors.New(errors.ErrorTypeUnavailable, remediation).
		WithDetail("searched", paths)
}

// Available reports whether the device runtime can be acquired. The first
// call runs the probe; every later call, from any goroutine, observes the
// cached outcome without re-running it.
func Available() error {
	runtime.mu.Lock()
	defer runtime.mu.Unlock()
	if !runtime.done {
		runtime.err = runtime.probe()
		runtime.done = true
		if runtime.err != nil {
			logger.Warn("device runtime unavailable", zap.Error(runtime.err))
		}
	}
	return runtime.err
}

// SetProbe replaces the runtime probe and clears the memoized outcome.
// Intended for tests; a nil probe restores the default.
func SetProbe(probe func() error) {
	runtime.mu.Lock()
	defer runtime.mu.Unlock()
	if probe == nil {
		probe = defaultProbe
	}
	runtime.probe = probe
	runtime.done = false
	runtime.err = nil
}
