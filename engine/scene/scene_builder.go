package scene

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/signal"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithConfig sets the configuration rigs are built with and the worker count
// of the parallel phase of Update.
//
// Parameters:
//   - cfg: the loaded configuration
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithConfig(cfg config.Config) SceneBuilderOption {
	return func(s *scene) {
		s.cfg = cfg
		s.computeWorkers = max(cfg.Workers, 1)
	}
}

// WithComputeWorkers sets the number of worker goroutines used during the
// parallel phase of Update. One (the default) updates rigs on the calling
// goroutine; DefaultComputeWorkers suits scenes with many rigs.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithSignalSink sets where the animation events of every rig are delivered.
//
// Parameters:
//   - sink: the signal sink, for example a *signal.Registry
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSignalSink(sink signal.Sink) SceneBuilderOption {
	return func(s *scene) {
		s.signals = sink
	}
}
