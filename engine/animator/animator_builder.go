package animator

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/signal"
	"github.com/google/uuid"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithEntity is an option builder that sets the id fired signals are tagged with.
//
// Parameters:
//   - id: the owning entity's id
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the entity option to an animator
func WithEntity(id uuid.UUID) AnimatorBuilderOption {
	return func(a *animator) {
		a.entity = id
	}
}

// WithSignalSink is an option builder that sets where animation events are delivered.
// A nil sink discards events.
//
// Parameters:
//   - sink: the signal sink
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the sink option to an animator
func WithSignalSink(sink signal.Sink) AnimatorBuilderOption {
	return func(a *animator) {
		if sink == nil {
			sink = signal.Discard
		}
		a.signals = sink
	}
}

// WithAnchor is an option builder that sets the anchor NeedsUpdate watches for
// movement and look changes.
//
// Parameters:
//   - anchor: the anchor query handle
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the anchor option to an animator
func WithAnchor(anchor game_object.Anchor) AnimatorBuilderOption {
	return func(a *animator) {
		a.anchor = anchor
	}
}

// WithBlendDuration is an option builder that sets the cross-fade length in seconds.
// Zero disables blending.
//
// Parameters:
//   - seconds: the blend duration (default 0.3)
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the blend duration option to an animator
func WithBlendDuration(seconds float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.blendDuration = max(seconds, 0)
	}
}

// WithIdleClip is an option builder that sets the name (matched ignoring case)
// of the clip played when a once/hold clip ends with nothing queued.
//
// Parameters:
//   - name: the idle clip name (default "idle")
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the idle clip option to an animator
func WithIdleClip(name string) AnimatorBuilderOption {
	return func(a *animator) {
		a.idleClip = name
	}
}

// WithDither is an option builder that toggles the sub-millimetre wobble added
// to flat keyframe segments.
//
// Parameters:
//   - enabled: true to dither (default)
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the dither option to an animator
func WithDither(enabled bool) AnimatorBuilderOption {
	return func(a *animator) {
		a.dither = enabled
	}
}

// WithAnchorThresholds is an option builder that sets how far the anchor must
// move (world units) or turn (degrees) before NeedsUpdate reports a change.
//
// Parameters:
//   - position: movement threshold
//   - angle: look and body yaw threshold
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the threshold option to an animator
func WithAnchorThresholds(position, angle float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.positionEpsilon = position
		a.angleEpsilon = angle
	}
}

// WithConfig is an option builder that applies the playback settings of cfg.
//
// Parameters:
//   - cfg: the loaded configuration
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the configuration to an animator
func WithConfig(cfg config.Config) AnimatorBuilderOption {
	return func(a *animator) {
		a.blendDuration = max(cfg.BlendDuration, 0)
		a.idleClip = cfg.IdleClip
		a.dither = cfg.Dither
		a.positionEpsilon = cfg.Anchor.PositionEpsilon
		a.angleEpsilon = cfg.Anchor.AngleEpsilon
	}
}
