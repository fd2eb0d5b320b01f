package animator

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/pose"
)

// freeze replaces the finished clip with a zero-length hold clip whose single
// keyframes are the exact final pose, expressed as offsets from the bind pose.
// Sampling it reproduces the pose bit for bit, so nothing moves on the switch.
func (a *animator) freeze() {
	ended := a.current.clip
	tracks := make(map[string]*model.BoneTrack)
	identity := pose.IdentityDelta()

	for i, d := range a.deltas {
		if d == identity {
			continue
		}
		bone := a.skeleton.Bones[i]
		tracks[bone.ID] = &model.BoneTrack{
			Position: []model.VectorKeyframe{{
				Value:         common.WorldToModel(d.Offset),
				Interpolation: model.InterpolationStep,
			}},
			Rotation: heldRotation(d),
			Scale: []model.VectorKeyframe{{
				Value:         d.Scale,
				Interpolation: model.InterpolationStep,
			}},
		}
	}

	held := &model.AnimationClip{
		Name:   ended.Name,
		Length: 0,
		Loop:   model.LoopHold,
		Tracks: tracks,
	}
	held.Resolve(a.skeleton)

	a.current = playback{clip: held, speed: a.current.speed}
	a.frozen = true
	a.blending = false
	a.blendTween = nil
	a.blendWeight = 0
	a.resetFired()
}

// heldRotation holds d's rotation in two identical step keys. A lone rotation
// key parallel to the bind rotation samples as identity, while a keyframe hit
// in a multi-key channel returns the stored quaternion verbatim.
func heldRotation(d pose.Delta) []model.RotationKeyframe {
	k := model.RotationKeyframe{
		Euler:         d.Euler,
		Rotation:      d.Rotation,
		Interpolation: model.InterpolationStep,
	}
	return []model.RotationKeyframe{k, k}
}
