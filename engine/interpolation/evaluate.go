package interpolation

import (
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Epsilon is the snap distance (seconds) at which a query time is treated
	// as sitting exactly on a keyframe.
	Epsilon float32 = 1e-4

	// DitherAmplitude bounds the perturbation added to flat segments.
	DitherAmplitude float32 = 0.0005

	flatThreshold   float32 = 1e-6
	parallelEpsilon float32 = 1e-6

	noKey = -1
)

// Cursor describes where a channel is sampled.
type Cursor struct {
	// Time is the sample time in seconds.
	Time float32

	// Length is the clip length in seconds.
	Length float32

	// Loop selects the channel's end-of-clip extension.
	Loop model.LoopMode

	// Dither adds a deterministic sub-millimetre wobble to segments whose two
	// keyframes hold the same value, so consumers that drop unchanged
	// transforms keep receiving updates.
	Dither bool
}

type keyed interface {
	Point() model.Point
}

// span is a keyframe slice viewed with its synthetic end-of-clip keyframe.
type span[K keyed] struct {
	keys       []K
	tail       model.Point
	hasTail    bool
	tailSource int  // real keyframe the tail duplicates
	hold       bool // tail is a hold extension
}

func newSpan[K keyed](keys []K, c Cursor) span[K] {
	s := span[K]{keys: keys}
	first := keys[0].Point()
	last := keys[len(keys)-1].Point()

	switch c.Loop {
	case model.LoopRepeat:
		if last.Time < c.Length-Epsilon {
			s.hasTail = true
			s.tailSource = 0
			s.tail = model.Point{Time: c.Length, Value: first.Value, Interpolation: first.Interpolation}
		}
	default:
		s.hasTail = true
		s.hold = true
		s.tailSource = len(keys) - 1
		s.tail = model.Point{
			Time:          max(c.Length, last.Time) + 1,
			Value:         last.Value,
			Interpolation: model.InterpolationStep,
		}
	}
	return s
}

func (s span[K]) len() int {
	if s.hasTail {
		return len(s.keys) + 1
	}
	return len(s.keys)
}

func (s span[K]) at(i int) model.Point {
	if i >= len(s.keys) {
		return s.tail
	}
	return s.keys[i].Point()
}

// source maps an extended index back to the real keyframe it holds.
func (s span[K]) source(i int) int {
	if i >= len(s.keys) {
		return s.tailSource
	}
	return i
}

// neighbour returns the control point at extended index i for spline
// segments, wrapping for looping channels and clamping otherwise.
func (s span[K]) neighbour(i int, loop bool) model.Point {
	n := s.len()
	if loop && s.hasTail {
		m := len(s.keys)
		switch {
		case i < 0:
			i += m
		case i >= n:
			i -= m
		}
	}
	if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	return s.at(i)
}

// sample evaluates a channel with two or more keyframes. exact is the real
// keyframe index the result equals verbatim, or noKey for interpolated values.
func sample[K keyed](keys []K, c Cursor) (value mgl32.Vec3, exact int) {
	s := newSpan(keys, c)
	n := s.len()

	first := s.at(0)
	last := s.at(n - 1)
	t := mgl32.Clamp(c.Time, first.Time, last.Time)

	j := sort.Search(n, func(k int) bool { return s.at(k).Time > t })
	i := min(max(j-1, 0), n-2)
	a, b := s.at(i), s.at(i+1)

	if t-a.Time <= Epsilon {
		return a.Value, s.source(i)
	}
	if b.Time-t <= Epsilon {
		return b.Value, s.source(i + 1)
	}
	if s.hold && i+1 == n-1 {
		return a.Value, s.source(i)
	}

	var p float32
	if dt := b.Time - a.Time; dt > 0 {
		p = (t - a.Time) / dt
	}

	switch a.Interpolation {
	case model.InterpolationStep:
		return a.Value, s.source(i)
	case model.InterpolationCatmullRom:
		loop := c.Loop == model.LoopRepeat
		p0 := s.neighbour(i-1, loop)
		p3 := s.neighbour(i+2, loop)
		value = CatmullRom(p0.Value, a.Value, b.Value, p3.Value, p)
	case model.InterpolationBezier:
		c1, c2 := a.Value, b.Value
		if a.Handles != nil {
			c1 = a.Value.Add(a.Handles.Right)
		}
		if b.Handles != nil {
			c2 = b.Value.Add(b.Handles.Left)
		}
		value = Bezier(a.Value, c1, c2, b.Value, p)
	default:
		value = LerpVec3(a.Value, b.Value, p)
	}

	if c.Dither && a.Value.ApproxEqualThreshold(b.Value, flatThreshold) {
		d := DitherAmplitude * float32(math.Sin(2*math.Pi*float64(p)))
		value = value.Add(mgl32.Vec3{d, d, d})
	}
	return value, noKey
}

// EvaluateVector samples a position or scale channel.
//
// Parameters:
//   - keys: the channel's keyframes sorted by time
//   - c: where to sample
//   - fallback: the value of an empty channel
//
// Returns:
//   - mgl32.Vec3: the sampled value
func EvaluateVector(keys []model.VectorKeyframe, c Cursor, fallback mgl32.Vec3) mgl32.Vec3 {
	switch len(keys) {
	case 0:
		return fallback
	case 1:
		return keys[0].Value
	}
	v, _ := sample(keys, c)
	return v
}

// EvaluateRotation samples a rotation channel as a delta from the bind pose.
// Interpolation happens on the unwrapped Euler angles, so spins wider than
// 180° stay monotonic, and the result is converted to a quaternion. Results
// landing on a keyframe return its stored quaternion untouched.
//
// Parameters:
//   - keys: the channel's keyframes sorted by time
//   - c: where to sample
//   - bind: the bone's bind rotation
//
// Returns:
//   - mgl32.Quat: the delta rotation
//   - mgl32.Vec3: the Euler angles (degrees, model axes) the delta was built from
func EvaluateRotation(keys []model.RotationKeyframe, c Cursor, bind mgl32.Quat) (mgl32.Quat, mgl32.Vec3) {
	switch len(keys) {
	case 0:
		return mgl32.QuatIdent(), mgl32.Vec3{}
	case 1:
		k := keys[0]
		if mgl32.Abs(k.Rotation.Dot(bind)) >= 1-parallelEpsilon {
			return mgl32.QuatIdent(), mgl32.Vec3{}
		}
		return k.Rotation, k.Euler
	}

	c.Dither = false
	euler, exact := sample(keys, c)
	if exact != noKey {
		return keys[exact].Rotation, keys[exact].Euler
	}
	return common.ModelEulerToQuat(euler), euler
}
