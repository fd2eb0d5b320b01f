package animator

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/interpolation"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/pose"
	"github.com/Carmen-Shannon/oxy-rig/engine/signal"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/tanema/gween"
)

// Defaults applied by NewAnimator.
const (
	DefaultBlendDuration   float32 = 0.3
	DefaultIdleClip                = "idle"
	DefaultPositionEpsilon float32 = 0.001
	DefaultAngleEpsilon    float32 = 0.01
)

// ErrClipNotFound is returned by Play when the model has no clip with the requested name.
var ErrClipNotFound = errors.New("animator: clip not found")

// State is the playback state of an Animator. Blending is tracked separately
// and can overlap StatePlaying.
type State uint8

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// playback is a clip together with its playhead.
type playback struct {
	clip  *model.AnimationClip
	time  float32
	speed float32
}

type request struct {
	clip          *model.AnimationClip
	speed         float32
	interruptible bool
}

type animator struct {
	mdl      model.Model
	skeleton *model.Skeleton
	bind     []pose.BoneTransform

	entity  uuid.UUID
	signals signal.Sink
	anchor  game_object.Anchor

	state         State
	current       playback
	interruptible bool
	queued        *request
	frozen        bool
	fired         []bool

	blending      bool
	blendFrom     playback
	blendTween    *gween.Tween
	blendWeight   float32
	blendElapsed  float32
	blendDuration float32

	deltas     []pose.Delta
	fromDeltas []pose.Delta
	local      []pose.BoneTransform
	overrides  map[int]pose.Delta

	dirty           bool
	observed        game_object.Snapshot
	observedFresh   bool
	lastAnchor      game_object.Snapshot
	anchorConsumed  bool
	positionEpsilon float32
	angleEpsilon    float32

	idleClip string
	dither   bool
}

// Animator is the per-entity playback state machine. It owns one working
// transform per bone, samples the current clip (and the clip being blended
// away from) every tick and fires the clip's events. It is not safe for
// concurrent use; a single tick drives it.
type Animator interface {
	// Model returns the model this animator plays clips from.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// Entity returns the id signals are tagged with.
	//
	// Returns:
	//   - uuid.UUID: the entity id
	Entity() uuid.UUID

	// Play starts the model's clip with the given name. See PlayClip.
	//
	// Parameters:
	//   - name: the clip name (case-sensitive)
	//   - speed: playback rate, negative values are treated as 0
	//   - interruptible: whether later Play calls may replace the clip before it ends
	//
	// Returns:
	//   - error: ErrClipNotFound if the model has no such clip
	Play(name string, speed float32, interruptible bool) error

	// PlayClip starts clip. It is a no-op when a clip with the same name is
	// already playing. When the current clip is not interruptible the request
	// replaces the single pending slot and starts once the current clip ends.
	// Otherwise the current clip becomes the blend source, playback restarts at
	// time 0 and frame 0 is sampled immediately.
	//
	// Parameters:
	//   - clip: the clip to play
	//   - speed: playback rate, negative values are treated as 0
	//   - interruptible: whether later Play calls may replace the clip before it ends
	PlayClip(clip *model.AnimationClip, speed float32, interruptible bool)

	// Advance moves playback forward by dt seconds (scaled by speed), fires
	// crossed events, handles looping and clip termination and resamples the pose.
	// Does nothing unless the animator is playing.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// Stop ends playback and clears any pending request and blend. Without
	// resetPose the clip and its playhead are kept, so Play of the same clip
	// stays a no-op and Resume picks up where playback stopped.
	//
	// Parameters:
	//   - resetPose: if true the current clip is dropped and every bone returns
	//     to its bind pose
	Stop(resetPose bool)

	// Pause suspends playback without touching the playhead.
	Pause()

	// Resume continues a paused clip, or one kept by Stop(false).
	Resume()

	// State returns the playback state.
	//
	// Returns:
	//   - State: idle, playing or paused
	State() State

	// CurrentClip returns the clip being played or held.
	//
	// Returns:
	//   - *model.AnimationClip: the clip
	//   - bool: false when no clip is current
	CurrentClip() (*model.AnimationClip, bool)

	// Elapsed returns the playhead position in seconds.
	Elapsed() float32

	// Speed returns the playback rate.
	Speed() float32

	// SetSpeed changes the playback rate of the current clip.
	//
	// Parameters:
	//   - speed: playback rate, negative values are treated as 0
	SetSpeed(speed float32)

	// Frozen reports whether the animator is holding the final pose of a clip
	// that ended with nothing to follow it.
	Frozen() bool

	// Queued returns the name of the pending clip, if any.
	//
	// Returns:
	//   - string: the pending clip name
	//   - bool: false when nothing is pending
	Queued() (string, bool)

	// IsBlending reports whether a cross-fade is in progress.
	IsBlending() bool

	// BlendProgress returns the linear cross-fade progress in [0,1], 0 when not blending.
	BlendProgress() float32

	// BlendWeight returns the eased weight of the incoming clip, 0 when not blending.
	BlendWeight() float32

	// SetBoneOverride replaces the animated delta of a bone until cleared.
	//
	// Parameters:
	//   - bone: arena index of the bone
	//   - d: the delta to apply instead of the sampled one
	//
	// Returns:
	//   - bool: false if bone is out of range
	SetBoneOverride(bone int, d pose.Delta) bool

	// ClearBoneOverride removes a bone override.
	//
	// Parameters:
	//   - bone: arena index of the bone
	ClearBoneOverride(bone int)

	// Pose returns the working local transforms in arena order. The slice is
	// owned by the animator and overwritten by the next Advance.
	//
	// Returns:
	//   - []pose.BoneTransform: the local transforms
	Pose() []pose.BoneTransform

	// Bind returns the bind-pose transforms in arena order.
	//
	// Returns:
	//   - []pose.BoneTransform: the bind pose
	Bind() []pose.BoneTransform

	// NeedsUpdate reports whether the pose changed since the last ConsumeFrame
	// or the anchor moved or turned beyond the configured thresholds.
	//
	// Returns:
	//   - bool: true when the compositor should run this tick
	NeedsUpdate() bool

	// ConsumeFrame marks the current pose and anchor state as composed.
	ConsumeFrame()
}

var _ Animator = &animator{}

// NewAnimator creates an Animator for m. All per-bone working state is
// allocated here and reused for the animator's lifetime.
//
// Parameters:
//   - m: the model to animate (must not be nil)
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the newly created animator, idle at the bind pose
func NewAnimator(m model.Model, options ...AnimatorBuilderOption) Animator {
	if m == nil {
		panic("animator: NewAnimator requires a non-nil Model")
	}

	s := m.Skeleton()
	n := s.Len()
	a := &animator{
		mdl:             m,
		skeleton:        s,
		bind:            pose.BindPose(s),
		signals:         signal.Discard,
		interruptible:   true,
		deltas:          make([]pose.Delta, n),
		fromDeltas:      make([]pose.Delta, n),
		local:           make([]pose.BoneTransform, n),
		overrides:       make(map[int]pose.Delta),
		positionEpsilon: DefaultPositionEpsilon,
		angleEpsilon:    DefaultAngleEpsilon,
		blendDuration:   DefaultBlendDuration,
		idleClip:        DefaultIdleClip,
		dither:          true,
		dirty:           true,
	}

	for _, opt := range options {
		opt(a)
	}

	a.resetDeltas()
	a.compose()
	return a
}

func (a *animator) Model() model.Model {
	return a.mdl
}

func (a *animator) Entity() uuid.UUID {
	return a.entity
}

func (a *animator) Play(name string, speed float32, interruptible bool) error {
	clip, ok := a.mdl.Animation(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrClipNotFound, name)
	}
	a.PlayClip(clip, speed, interruptible)
	return nil
}

func (a *animator) PlayClip(clip *model.AnimationClip, speed float32, interruptible bool) {
	if clip == nil {
		return
	}
	if !clip.ResolvedAgainst(a.skeleton) {
		clip.Resolve(a.skeleton)
	}

	if a.current.clip != nil && !a.frozen && a.current.clip.Name == clip.Name {
		return
	}
	if a.current.clip != nil && !a.frozen && !a.interruptible && a.state != StateIdle {
		a.queued = &request{clip: clip, speed: speed, interruptible: interruptible}
		return
	}

	a.start(clip, speed, interruptible)
}

// start makes clip current, snapshotting the outgoing clip as the blend source.
func (a *animator) start(clip *model.AnimationClip, speed float32, interruptible bool) {
	if a.current.clip != nil && a.blendDuration > 0 {
		a.blendFrom = a.current
		a.blending = true
		a.blendElapsed = 0
		a.blendWeight = 0
		a.blendTween = gween.New(0, 1, a.blendDuration, smoothstepEase)
	} else {
		a.blending = false
	}

	a.current = playback{clip: clip, time: 0, speed: max(speed, 0)}
	a.interruptible = interruptible
	a.frozen = false
	a.state = StatePlaying

	a.resetFired()
	a.scanEvents(0, 0)
	a.resample()
}

func (a *animator) Advance(dt float32) {
	if a.state != StatePlaying || a.current.clip == nil || a.frozen || dt <= 0 {
		return
	}

	if a.blending {
		a.blendFrom.time = advanceTime(a.blendFrom, dt)
		a.blendElapsed += dt
		weight, done := a.blendTween.Update(dt)
		a.blendWeight = weight
		if done {
			a.blending = false
			a.blendTween = nil
		}
	}

	clip := a.current.clip
	prev := a.current.time
	next := prev + dt*a.current.speed

	switch clip.Loop {
	case model.LoopRepeat:
		if clip.Length <= 0 {
			next = 0
			break
		}
		if next >= clip.Length {
			a.scanEvents(prev, clip.Length)
			// Whole cycles skipped by a long tick still fire their events.
			for range int(next/clip.Length) - 1 {
				a.resetFired()
				a.scanEvents(0, clip.Length)
			}
			next = float32(math.Mod(float64(next), float64(clip.Length)))
			a.resetFired()
			a.scanEvents(0, next)
		} else {
			a.scanEvents(prev, next)
		}
	default:
		if next >= clip.Length {
			a.scanEvents(prev, clip.Length)
			a.current.time = clip.Length
			a.resample()
			a.finish()
			return
		}
		a.scanEvents(prev, next)
	}

	a.current.time = next
	a.resample()
}

// finish runs when a once/hold clip reaches its end: a pending request wins,
// then the idle clip, and otherwise the final pose is frozen in place.
func (a *animator) finish() {
	a.interruptible = true

	if q := a.queued; q != nil {
		a.queued = nil
		a.start(q.clip, q.speed, q.interruptible)
		return
	}

	if idle, ok := a.mdl.FindAnimation(a.idleClip); ok && idle.Name != a.current.clip.Name {
		a.start(idle, 1, true)
		return
	}

	a.freeze()
}

func (a *animator) Stop(resetPose bool) {
	a.state = StateIdle
	a.queued = nil
	a.interruptible = true
	a.blending = false
	a.blendTween = nil
	a.blendWeight = 0
	a.blendElapsed = 0
	a.resetFired()

	if resetPose {
		a.current = playback{}
		a.frozen = false
		a.resetFired()
		a.resetDeltas()
		a.compose()
		a.dirty = true
	}
}

func (a *animator) Pause() {
	if a.state == StatePlaying {
		a.state = StatePaused
	}
}

func (a *animator) Resume() {
	if a.state != StatePlaying && a.current.clip != nil {
		a.state = StatePlaying
	}
}

func (a *animator) State() State {
	return a.state
}

func (a *animator) CurrentClip() (*model.AnimationClip, bool) {
	return a.current.clip, a.current.clip != nil
}

func (a *animator) Elapsed() float32 {
	return a.current.time
}

func (a *animator) Speed() float32 {
	return a.current.speed
}

func (a *animator) SetSpeed(speed float32) {
	a.current.speed = max(speed, 0)
}

func (a *animator) Frozen() bool {
	return a.frozen
}

func (a *animator) Queued() (string, bool) {
	if a.queued == nil {
		return "", false
	}
	return a.queued.clip.Name, true
}

func (a *animator) IsBlending() bool {
	return a.blending
}

func (a *animator) BlendProgress() float32 {
	if !a.blending || a.blendDuration <= 0 {
		return 0
	}
	return min(a.blendElapsed/a.blendDuration, 1)
}

func (a *animator) BlendWeight() float32 {
	if !a.blending {
		return 0
	}
	return a.blendWeight
}

func (a *animator) SetBoneOverride(bone int, d pose.Delta) bool {
	if bone < 0 || bone >= len(a.local) {
		return false
	}
	a.overrides[bone] = d
	a.local[bone] = d.Apply(a.bind[bone])
	a.dirty = true
	return true
}

func (a *animator) ClearBoneOverride(bone int) {
	if _, ok := a.overrides[bone]; !ok {
		return
	}
	delete(a.overrides, bone)
	a.local[bone] = a.deltas[bone].Apply(a.bind[bone])
	a.dirty = true
}

func (a *animator) Pose() []pose.BoneTransform {
	return a.local
}

func (a *animator) Bind() []pose.BoneTransform {
	return a.bind
}

func (a *animator) NeedsUpdate() bool {
	if a.anchor != nil {
		a.observed = a.anchor.Snapshot()
		a.observedFresh = true
	}
	if a.dirty {
		return true
	}
	if a.anchor == nil {
		return false
	}
	if !a.anchorConsumed {
		return true
	}
	return a.anchorMoved(a.lastAnchor, a.observed)
}

func (a *animator) ConsumeFrame() {
	a.dirty = false
	if a.anchor == nil {
		return
	}
	if !a.observedFresh {
		a.observed = a.anchor.Snapshot()
	}
	a.lastAnchor = a.observed
	a.observedFresh = false
	a.anchorConsumed = true
}

func (a *animator) anchorMoved(prev, cur game_object.Snapshot) bool {
	if prev.Valid != cur.Valid {
		return true
	}
	if cur.Position.Sub(prev.Position).Len() > a.positionEpsilon {
		return true
	}
	for _, d := range [3]float32{cur.Yaw - prev.Yaw, cur.Pitch - prev.Pitch, cur.BodyYaw - prev.BodyYaw} {
		if mgl32.Abs(interpolation.WrapDegrees(d)) > a.angleEpsilon {
			return true
		}
	}
	return false
}

// resample rebuilds the working pose from the current playheads.
func (a *animator) resample() {
	a.sampleClip(a.current.clip, a.current.time, a.deltas)
	if a.blending && a.blendFrom.clip != nil {
		a.sampleClip(a.blendFrom.clip, a.blendFrom.time, a.fromDeltas)
		for i := range a.deltas {
			a.deltas[i] = pose.Blend(a.fromDeltas[i], a.deltas[i], a.blendWeight)
		}
	}
	a.compose()
	a.dirty = true
}

func (a *animator) compose() {
	for i := range a.local {
		d := a.deltas[i]
		if o, ok := a.overrides[i]; ok {
			d = o
		}
		a.local[i] = d.Apply(a.bind[i])
	}
}

func (a *animator) resetDeltas() {
	for i := range a.deltas {
		a.deltas[i] = pose.IdentityDelta()
	}
}

// advanceTime moves a playhead that is not current (the blend source).
func advanceTime(p playback, dt float32) float32 {
	t := p.time + dt*p.speed
	if p.clip == nil {
		return t
	}
	if p.clip.Loop == model.LoopRepeat {
		if p.clip.Length <= 0 {
			return 0
		}
		return float32(math.Mod(float64(t), float64(p.clip.Length)))
	}
	return min(t, p.clip.Length)
}

// smoothstepEase is a gween easing curve following 3t²−2t³.
func smoothstepEase(t, b, c, d float32) float32 {
	if d <= 0 {
		return b + c
	}
	return b + c*interpolation.Smoothstep(t/d)
}
