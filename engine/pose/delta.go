package pose

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/interpolation"
	"github.com/go-gl/mathgl/mgl32"
)

// Delta is a bone's animated offset from its bind pose as produced by the sampler.
type Delta struct {
	// Offset is the animated translation in world units.
	Offset mgl32.Vec3

	// Euler is the authored rotation in degrees (model axes) that Rotation was
	// built from. Carried so a pose can be written back out as keyframes.
	Euler mgl32.Vec3

	// Rotation is the delta applied on top of the bind rotation.
	Rotation mgl32.Quat

	Scale mgl32.Vec3
}

// IdentityDelta returns the delta that leaves a bone at its bind pose.
func IdentityDelta() Delta {
	return Delta{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Apply resolves d against a bind transform into a working local transform:
// the translation is the bind pivot moved by the offset, the rotation is the
// bind rotation followed by the delta.
func (d Delta) Apply(bind BoneTransform) BoneTransform {
	return BoneTransform{
		Translation: bind.Translation.Add(d.Offset),
		Rotation:    bind.Rotation.Mul(d.Rotation).Normalize(),
		Scale:       d.Scale,
	}
}

// Blend mixes from and to by weight w in [0,1]: offset and scale linearly,
// rotation by shortest-path slerp.
//
// Parameters:
//   - from: the outgoing pose
//   - to: the incoming pose
//   - w: blend weight, 0 returns from and 1 returns to
//
// Returns:
//   - Delta: the blended delta
func Blend(from, to Delta, w float32) Delta {
	switch {
	case w <= 0:
		return from
	case w >= 1:
		return to
	}

	target := to.Rotation
	if from.Rotation.Dot(target) < 0 {
		target = target.Scale(-1)
	}

	return Delta{
		Offset: interpolation.LerpVec3(from.Offset, to.Offset, w),
		Euler: mgl32.Vec3{
			interpolation.LerpAngle(from.Euler[0], to.Euler[0], w),
			interpolation.LerpAngle(from.Euler[1], to.Euler[1], w),
			interpolation.LerpAngle(from.Euler[2], to.Euler[2], w),
		},
		Rotation: mgl32.QuatSlerp(from.Rotation, target, w).Normalize(),
		Scale:    interpolation.LerpVec3(from.Scale, to.Scale, w),
	}
}
