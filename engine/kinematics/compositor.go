// Package kinematics composes local bone transforms into world transforms.
package kinematics

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/display"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
)

type compositor struct {
	skeleton *model.Skeleton
	bind     []pose.BoneTransform
	world    []pose.BoneTransform

	anchor game_object.Anchor
	sink   display.Sink
	lean   leanFilter

	// snap is the anchor sample of the current tick, taken by Observe.
	snap     game_object.Snapshot
	observed bool
}

// Compositor walks a skeleton root to leaf once per tick, turning the
// animator's local transforms into world transforms and pushing every
// displayed bone to its sink. Like the animator it is driven by a single tick
// and is not safe for concurrent use.
type Compositor interface {
	// Skeleton returns the skeleton being composed.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton
	Skeleton() *model.Skeleton

	// Observe samples the anchor and steps the lean filter by one tick without
	// composing. A scheduler that skips Update on quiet ticks calls Observe
	// every tick so movement is measured tick by tick.
	Observe()

	// Update composes local (one transform per bone, in arena order) and pushes
	// the result to the sink. Gaze bones follow the anchor's look direction and
	// the remaining bones lean into sideways movement. Update uses the sample of
	// a preceding Observe, and observes by itself otherwise.
	//
	// Parameters:
	//   - local: the working local transforms, as returned by Animator.Pose
	Update(local []pose.BoneTransform)

	// WorldTransform returns the composed transform of a bone from the last
	// Update, including hidden and handle bones.
	//
	// Parameters:
	//   - bone: arena index of the bone
	//
	// Returns:
	//   - pose.BoneTransform: the world transform
	//   - bool: false if bone is out of range
	WorldTransform(bone int) (pose.BoneTransform, bool)

	// World returns every composed transform in arena order. The slice is owned
	// by the compositor and overwritten by the next Update.
	World() []pose.BoneTransform

	// LeanYaw returns the current filtered lean angle in degrees.
	LeanYaw() float32

	// Settled reports whether the lean filter has reached its target, in which
	// case a further Update with an unchanged pose produces the same output.
	Settled() bool

	// Sink returns the display sink, or nil when composing without one.
	Sink() display.Sink
}

var _ Compositor = &compositor{}

// NewCompositor creates a Compositor for s with the default lean tuning.
//
// Parameters:
//   - s: the skeleton to compose (must not be nil)
//   - options: functional options to configure the compositor
//
// Returns:
//   - Compositor: the newly created compositor
func NewCompositor(s *model.Skeleton, options ...CompositorBuilderOption) Compositor {
	if s == nil {
		panic("kinematics: NewCompositor requires a non-nil Skeleton")
	}

	c := &compositor{
		skeleton: s,
		bind:     pose.BindPose(s),
		world:    make([]pose.BoneTransform, s.Len()),
		lean:     leanFilter{cfg: config.DefaultLean()},
	}
	for i := range c.world {
		c.world[i] = c.bind[i]
	}

	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *compositor) Skeleton() *model.Skeleton {
	return c.skeleton
}

func (c *compositor) Observe() {
	c.snap = game_object.Snapshot{}
	if c.anchor != nil {
		c.snap = c.anchor.Snapshot()
	}
	c.lean.step(c.snap)
	c.observed = true
}

func (c *compositor) Update(local []pose.BoneTransform) {
	if !c.observed {
		c.Observe()
	}
	c.observed = false
	snap := c.snap
	leanQ := mgl32.QuatRotate(mgl32.DegToRad(c.lean.current), common.AxisY)

	var look gaze
	if snap.Valid {
		look = newGaze(snap)
	}

	n := min(len(local), c.skeleton.Len())
	for i := range n {
		l := local[i]
		followsGaze := look.active && c.skeleton.Has(i, model.FlagGaze)

		var w pose.BoneTransform
		if p := c.skeleton.Parents[i]; p >= 0 {
			pw := c.world[p]
			offset := l.Translation.Sub(c.bind[p].Translation)
			w.Translation = pw.Translation.Add(pw.Rotation.Rotate(common.MulElem(pw.Scale, offset)))
			w.Rotation = pw.Rotation.Mul(l.Rotation).Normalize()
			w.Scale = common.MulElem(pw.Scale, l.Scale)
		} else if followsGaze {
			w = l
		} else {
			w.Translation = leanQ.Rotate(l.Translation)
			w.Rotation = leanQ.Mul(l.Rotation).Normalize()
			w.Scale = l.Scale
		}

		if followsGaze {
			w.Rotation = look.rotation(l.Rotation)
		}
		c.world[i] = w

		if c.sink != nil && c.skeleton.Displayed(i) {
			c.sink.Apply(i, c.skeleton.Bones[i].Name, w)
		}
	}
}

func (c *compositor) WorldTransform(bone int) (pose.BoneTransform, bool) {
	if bone < 0 || bone >= len(c.world) {
		return pose.BoneTransform{}, false
	}
	return c.world[bone], true
}

func (c *compositor) World() []pose.BoneTransform {
	return c.world
}

func (c *compositor) LeanYaw() float32 {
	return c.lean.current
}

func (c *compositor) Settled() bool {
	return c.lean.settled()
}

func (c *compositor) Sink() display.Sink {
	return c.sink
}
