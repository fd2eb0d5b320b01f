package animator

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/interpolation"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
)

var unitScale = mgl32.Vec3{1, 1, 1}

// sampleClip evaluates clip at time t into out, one delta per bone. Bones the
// clip does not animate are left at the identity delta.
func (a *animator) sampleClip(clip *model.AnimationClip, t float32, out []pose.Delta) {
	for i := range out {
		out[i] = pose.IdentityDelta()
	}
	if clip == nil {
		return
	}

	c := interpolation.Cursor{
		Time:   t,
		Length: clip.Length,
		Loop:   clip.Loop,
		Dither: a.dither,
	}
	for _, b := range clip.Bindings() {
		if b.Bone < 0 || b.Bone >= len(out) {
			continue
		}
		track := b.Track
		rotation, euler := interpolation.EvaluateRotation(track.Rotation, c, a.bind[b.Bone].Rotation)
		out[b.Bone] = pose.Delta{
			Offset:   common.ModelToWorld(interpolation.EvaluateVector(track.Position, c, mgl32.Vec3{})),
			Euler:    euler,
			Rotation: rotation,
			Scale:    interpolation.EvaluateVector(track.Scale, c, unitScale),
		}
	}
}
