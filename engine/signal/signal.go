// Package signal carries animation events out of the animator to whatever
// gameplay code listens for them.
package signal

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/google/uuid"
)

// Context describes where in playback a signal fired.
type Context struct {
	// Clip is the name of the clip that was playing.
	Clip string

	// Event is the keyframe that fired.
	Event model.EventKeyframe

	// Time is the clip-local playback time at the end of the scanned interval.
	Time float32
}

// Signal is a single fired animation event.
type Signal struct {
	Entity  uuid.UUID
	Name    string
	Context Context
}

// Sink receives fired signals. Implementations are called from the tick that
// crossed the event and must not block.
type Sink interface {
	// Dispatch delivers a single signal.
	//
	// Parameters:
	//   - sig: the fired signal
	Dispatch(sig Signal)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(sig Signal)

// Dispatch calls f(sig).
func (f SinkFunc) Dispatch(sig Signal) {
	f(sig)
}

// Discard is a Sink that drops every signal.
var Discard Sink = SinkFunc(func(Signal) {})
