// Package pose holds the per-bone transform value types shared by the
// animator and the kinematics compositor.
package pose

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// BoneTransform is a decomposed translation/rotation/scale triple in world
// units. It only holds arrays, so assignment is always a deep copy.
type BoneTransform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns the transform with no translation, no rotation and unit scale.
func Identity() BoneTransform {
	return BoneTransform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromBone converts a bone's authored pivot and rotation into its bind-pose
// transform.
//
// Parameters:
//   - b: the bone
//   - rotationOverride: optional Euler rotation in degrees replacing the bone's own
//
// Returns:
//   - BoneTransform: the bind-pose transform (scale 1)
func FromBone(b model.Bone, rotationOverride *mgl32.Vec3) BoneTransform {
	rot := b.Rotation
	if rotationOverride != nil {
		rot = *rotationOverride
	}
	return BoneTransform{
		Translation: common.ModelToWorld(b.Pivot),
		Rotation:    common.ModelEulerToQuat(rot),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// BindPose builds the bind-pose transform of every bone in arena order.
func BindPose(s *model.Skeleton) []BoneTransform {
	out := make([]BoneTransform, s.Len())
	for i, b := range s.Bones {
		out[i] = FromBone(b, nil)
	}
	return out
}

// Clone returns a copy of t.
func (t BoneTransform) Clone() BoneTransform {
	return t
}

// Matrix writes t as a column-major TRS matrix into out.
func (t BoneTransform) Matrix(out []float32) {
	common.ComposeMatrix(out, t.Translation, t.Rotation, t.Scale)
}

// ApproxEqual reports whether two transforms match within eps per component.
// Quaternions q and -q are treated as equal.
func (t BoneTransform) ApproxEqual(o BoneTransform, eps float32) bool {
	if !t.Translation.ApproxEqualThreshold(o.Translation, eps) || !t.Scale.ApproxEqualThreshold(o.Scale, eps) {
		return false
	}
	return mgl32.Abs(t.Rotation.Dot(o.Rotation)) >= 1-eps
}
