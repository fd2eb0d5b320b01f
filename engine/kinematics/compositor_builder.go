package kinematics

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/display"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
)

// CompositorBuilderOption is a functional option for configuring a Compositor during construction.
type CompositorBuilderOption func(*compositor)

// WithAnchor is an option builder that sets the anchor gaze-follow and lean read from.
// Without an anchor bones are composed as animated.
//
// Parameters:
//   - anchor: the anchor query handle
//
// Returns:
//   - CompositorBuilderOption: a function that applies the anchor option to a compositor
func WithAnchor(anchor game_object.Anchor) CompositorBuilderOption {
	return func(c *compositor) {
		c.anchor = anchor
	}
}

// WithSink is an option builder that sets where composed transforms are pushed.
//
// Parameters:
//   - sink: the display sink
//
// Returns:
//   - CompositorBuilderOption: a function that applies the sink option to a compositor
func WithSink(sink display.Sink) CompositorBuilderOption {
	return func(c *compositor) {
		c.sink = sink
	}
}

// WithLean is an option builder that sets the lean filter tuning.
//
// Parameters:
//   - lean: the lean tuning
//
// Returns:
//   - CompositorBuilderOption: a function that applies the lean option to a compositor
func WithLean(lean config.Lean) CompositorBuilderOption {
	return func(c *compositor) {
		c.lean.cfg = lean
	}
}

// WithConfig is an option builder that applies the composition settings of cfg.
//
// Parameters:
//   - cfg: the loaded configuration
//
// Returns:
//   - CompositorBuilderOption: a function that applies the configuration to a compositor
func WithConfig(cfg config.Config) CompositorBuilderOption {
	return WithLean(cfg.Lean)
}
