package scene

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/animator"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/kinematics"
	"github.com/Carmen-Shannon/oxy-rig/engine/signal"
	"github.com/google/uuid"
)

// Rig is one animated entity: its anchor, its animator and its compositor.
// The animator and compositor must not be touched while the owning scene is
// inside Update.
type Rig struct {
	object     game_object.GameObject
	animator   animator.Animator
	compositor kinematics.Compositor

	queue signal.Queue
	seq   uint64
}

// ID returns the id of the entity the rig follows.
func (r *Rig) ID() uuid.UUID {
	return r.object.ID()
}

// Object returns the entity the rig follows.
func (r *Rig) Object() game_object.GameObject {
	return r.object
}

// Animator returns the rig's playback state machine.
func (r *Rig) Animator() animator.Animator {
	return r.animator
}

// Compositor returns the rig's forward-kinematics compositor.
func (r *Rig) Compositor() kinematics.Compositor {
	return r.compositor
}

// tick advances and, when anything changed, composes the rig. The lean filter
// is stepped every tick, composed or not. Reports whether the rig was composed.
func (r *Rig) tick(dt float32) bool {
	r.animator.Advance(dt)
	r.compositor.Observe()
	if !r.animator.NeedsUpdate() && r.compositor.Settled() {
		return false
	}
	r.compositor.Update(r.animator.Pose())
	r.animator.ConsumeFrame()
	return true
}
