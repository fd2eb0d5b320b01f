package kinematics

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/interpolation"
	"github.com/go-gl/mathgl/mgl32"
)

// gaze is the look rotation of one tick, shared by every gaze bone.
type gaze struct {
	active bool
	look   mgl32.Quat
}

// newGaze builds the yaw (relative to the body, so the head turns inside the
// body frame) and pitch of the anchor's look direction. Positive yaw turns
// right, which is negative about +Y; positive pitch looks down.
func newGaze(s game_object.Snapshot) gaze {
	yaw := interpolation.WrapDegrees(s.Yaw - s.BodyYaw)
	yawQ := mgl32.QuatRotate(mgl32.DegToRad(-yaw), common.AxisY)
	pitchQ := mgl32.QuatRotate(mgl32.DegToRad(s.Pitch), common.AxisX)
	return gaze{active: true, look: yawQ.Mul(pitchQ)}
}

// rotation replaces the yaw and pitch of an animated rotation with the look
// direction, keeping its roll.
func (g gaze) rotation(animated mgl32.Quat) mgl32.Quat {
	roll := common.QuatToEulerZYX(animated)[2]
	return g.look.Mul(mgl32.QuatRotate(roll, common.AxisZ)).Normalize()
}
