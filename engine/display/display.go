// Package display defines where composed bone transforms go. The rendering or
// proxy layer implements Sink; Buffer is a ready-made staging implementation.
package display

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/pose"
)

// Sink receives the final world transform of every displayed bone once per
// composed tick.
type Sink interface {
	// Apply delivers a bone's composed transform.
	//
	// Parameters:
	//   - bone: arena index of the bone
	//   - name: the bone's display name
	//   - t: the composed transform
	Apply(bone int, name string, t pose.BoneTransform)

	// Valid is the cheap probe the scheduler calls before updating a rig. A
	// sink that returns false has lost its display proxies and its rig is
	// dropped.
	//
	// Returns:
	//   - bool: false once the sink can no longer display anything
	Valid() bool
}

// Write is a single staged bone update.
type Write struct {
	Bone      int
	Name      string
	Transform pose.BoneTransform
}
