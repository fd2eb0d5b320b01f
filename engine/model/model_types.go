package model

import (
	"log"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
)

// --- Bone Types ---

// Tags recognised on bones (matched case-insensitively).
const (
	TagGaze   = "gaze"
	TagHandle = "handle"
)

// Bone is a single authored bone as produced by the model parser.
type Bone struct {
	// ID is the unique identifier used by clip tracks and child lists.
	ID string

	// Name is the human readable bone name.
	Name string

	// Pivot is the bone origin in model units.
	Pivot mgl32.Vec3

	// Rotation is the authored bind rotation in degrees (model axes).
	Rotation mgl32.Vec3

	// Children holds raw child ids. Entries that do not resolve to a bone
	// (cubes, locators) are ignored when building the skeleton.
	Children []string

	// Hidden bones are composed but never pushed to a display sink.
	Hidden bool

	// Tags drive behaviour such as gaze-follow and attachment handles.
	Tags []string
}

// HasTag reports whether the bone carries tag, ignoring case.
func (b Bone) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// --- Keyframe Types ---

// LoopMode controls what happens when playback reaches the end of a clip.
type LoopMode uint8

const (
	// LoopOnce plays to the end and then terminates.
	LoopOnce LoopMode = iota
	// LoopHold plays to the end and holds the final frame until replaced.
	LoopHold
	// LoopRepeat wraps back to the start.
	LoopRepeat
)

func (m LoopMode) String() string {
	switch m {
	case LoopOnce:
		return "once"
	case LoopHold:
		return "hold"
	case LoopRepeat:
		return "loop"
	}
	return "unknown"
}

// ParseLoopMode maps an authored loop mode name to a LoopMode.
// Unknown names fall back to LoopOnce.
//
// Parameters:
//   - s: the authored name ("once", "hold", "loop")
//
// Returns:
//   - LoopMode: the parsed mode
//   - bool: false if s was not recognised
func ParseLoopMode(s string) (LoopMode, bool) {
	switch strings.ToLower(s) {
	case "once", "play_once":
		return LoopOnce, true
	case "hold", "hold_on_last_frame":
		return LoopHold, true
	case "loop", "repeat":
		return LoopRepeat, true
	}
	return LoopOnce, false
}

// Interpolation selects how a keyframe segment is evaluated. The mode of the
// earlier keyframe of a segment applies to the whole segment.
type Interpolation uint8

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCatmullRom
	InterpolationBezier
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationLinear:
		return "linear"
	case InterpolationStep:
		return "step"
	case InterpolationCatmullRom:
		return "catmullrom"
	case InterpolationBezier:
		return "bezier"
	}
	return "unknown"
}

// ParseInterpolation maps an authored interpolation name to an Interpolation.
// Unknown names fall back to linear.
func ParseInterpolation(s string) (Interpolation, bool) {
	switch strings.ToLower(s) {
	case "linear":
		return InterpolationLinear, true
	case "step":
		return InterpolationStep, true
	case "catmullrom", "catmull_rom", "smooth":
		return InterpolationCatmullRom, true
	case "bezier":
		return InterpolationBezier, true
	}
	return InterpolationLinear, false
}

// BezierHandles are control-point offsets relative to a keyframe's value.
// Left shapes the segment arriving at the keyframe, Right the segment leaving it.
type BezierHandles struct {
	Left  mgl32.Vec3
	Right mgl32.Vec3
}

// VectorKeyframe stores a position or scale value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is in model units for position channels and a factor for scale.
	Value mgl32.Vec3

	Interpolation Interpolation

	// Handles is only consulted by bezier segments; nil means no handles.
	Handles *BezierHandles
}

// RotationKeyframe stores an authored Euler rotation together with its
// world-space quaternion.
type RotationKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Euler is the unwrapped rotation in degrees (model axes). Values may exceed
	// 180 so that multi-turn spins interpolate monotonically.
	Euler mgl32.Vec3

	// Rotation is the equivalent world-space quaternion.
	Rotation mgl32.Quat

	Interpolation Interpolation
	Handles       *BezierHandles
}

// NewRotationKeyframe builds a RotationKeyframe, deriving the quaternion from
// the authored Euler angles.
//
// Parameters:
//   - time: keyframe timestamp in seconds
//   - euler: authored rotation in degrees
//   - interp: segment interpolation mode
//
// Returns:
//   - RotationKeyframe: the keyframe
func NewRotationKeyframe(time float32, euler mgl32.Vec3, interp Interpolation) RotationKeyframe {
	return RotationKeyframe{
		Time:          time,
		Euler:         euler,
		Rotation:      common.ModelEulerToQuat(euler),
		Interpolation: interp,
	}
}

// BoneTrack holds the animated channels of a single bone. Any channel may be empty.
type BoneTrack struct {
	Position []VectorKeyframe
	Rotation []RotationKeyframe
	Scale    []VectorKeyframe
}

// EventKeyframe is a named signal fired when playback crosses Time.
type EventKeyframe struct {
	Time float32
	Name string

	// Channel only matters for ordering events that share a timestamp.
	Channel string
}

// --- Animation Types ---

// AnimationClip is a named animation with per-bone tracks and timed events.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Length is the clip duration in seconds.
	Length float32

	Loop LoopMode

	// Tracks maps bone ids to their animated channels.
	Tracks map[string]*BoneTrack

	// Events are sorted by time (then channel) when the clip is resolved.
	Events []EventKeyframe

	bindings []TrackBinding
	resolved *Skeleton
}

// TrackBinding pairs a track with the arena index of the bone it animates.
type TrackBinding struct {
	Bone  int
	Track *BoneTrack
}

// Resolve binds the clip's tracks to arena indices of s. Tracks whose bone id
// is unknown are skipped and reported. Keyframes and events are sorted by time.
// A clip must be resolved before it is sampled.
//
// Parameters:
//   - s: the skeleton to resolve against
//
// Returns:
//   - []string: the bone ids that could not be resolved
func (c *AnimationClip) Resolve(s *Skeleton) []string {
	var skipped []string
	c.bindings = c.bindings[:0]

	for id, track := range c.Tracks {
		if track == nil {
			continue
		}
		idx, ok := s.IndexOf(id)
		if !ok {
			skipped = append(skipped, id)
			continue
		}
		sortTrack(track)
		c.bindings = append(c.bindings, TrackBinding{Bone: idx, Track: track})
	}
	sort.Slice(c.bindings, func(i, j int) bool { return c.bindings[i].Bone < c.bindings[j].Bone })

	sort.SliceStable(c.Events, func(i, j int) bool {
		if c.Events[i].Time != c.Events[j].Time {
			return c.Events[i].Time < c.Events[j].Time
		}
		return c.Events[i].Channel < c.Events[j].Channel
	})

	c.resolved = s
	if len(skipped) > 0 {
		sort.Strings(skipped)
		log.Printf("[Model] clip %q: skipped tracks for unknown bones %v", c.Name, skipped)
	}
	return skipped
}

// Bindings returns the resolved track bindings ordered by bone index.
func (c *AnimationClip) Bindings() []TrackBinding {
	return c.bindings
}

// ResolvedAgainst reports whether the clip has been resolved against s.
func (c *AnimationClip) ResolvedAgainst(s *Skeleton) bool {
	return c.resolved == s
}

func sortTrack(t *BoneTrack) {
	sort.SliceStable(t.Position, func(i, j int) bool { return t.Position[i].Time < t.Position[j].Time })
	sort.SliceStable(t.Rotation, func(i, j int) bool { return t.Rotation[i].Time < t.Rotation[j].Time })
	sort.SliceStable(t.Scale, func(i, j int) bool { return t.Scale[i].Time < t.Scale[j].Time })
}

// Point is the time/value view of a keyframe that the interpolation code
// evaluates. Rotation keyframes expose their Euler angles as the value.
type Point struct {
	Time          float32
	Value         mgl32.Vec3
	Interpolation Interpolation
	Handles       *BezierHandles
}

// Point returns the keyframe's time/value view.
func (k VectorKeyframe) Point() Point {
	return Point{Time: k.Time, Value: k.Value, Interpolation: k.Interpolation, Handles: k.Handles}
}

// Point returns the keyframe's time/value view with the Euler angles as value.
func (k RotationKeyframe) Point() Point {
	return Point{Time: k.Time, Value: k.Euler, Interpolation: k.Interpolation, Handles: k.Handles}
}
