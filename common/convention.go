package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UnitsPerBlock is the number of model units in one world unit. Authoring tools
// lay models out on a 16-unit block grid.
const UnitsPerBlock float32 = 16

var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// ModelToWorld converts a model-space vector (authoring units) into world units.
// The X and Z axes are sign-flipped, which is a half turn about Y.
//
// Parameters:
//   - v: vector in model units
//
// Returns:
//   - mgl32.Vec3: the vector in world units
func ModelToWorld(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-v[0] / UnitsPerBlock, v[1] / UnitsPerBlock, -v[2] / UnitsPerBlock}
}

// WorldToModel is the inverse of ModelToWorld. Both directions only scale by a
// power of two and negate, so a round trip is bit-exact.
//
// Parameters:
//   - v: vector in world units
//
// Returns:
//   - mgl32.Vec3: the vector in model units
func WorldToModel(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-v[0] * UnitsPerBlock, v[1] * UnitsPerBlock, -v[2] * UnitsPerBlock}
}

// EulerZYXToQuat builds a quaternion from Euler angles in degrees using
// intrinsic Z, then Y, then X order (q = qz * qy * qx).
//
// Parameters:
//   - deg: rotation about X, Y and Z in degrees
//
// Returns:
//   - mgl32.Quat: the unit quaternion
func EulerZYXToQuat(deg mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(deg[0]), AxisX)
	qy := mgl32.QuatRotate(mgl32.DegToRad(deg[1]), AxisY)
	qz := mgl32.QuatRotate(mgl32.DegToRad(deg[2]), AxisZ)
	return qz.Mul(qy).Mul(qx).Normalize()
}

// ModelEulerToQuat converts an authored Euler rotation (degrees, model axes)
// into a world-space quaternion. The half turn about Y that maps model axes to
// world axes negates the X and Z angles and leaves Y untouched.
//
// Parameters:
//   - deg: authored rotation in degrees
//
// Returns:
//   - mgl32.Quat: the world-space rotation
func ModelEulerToQuat(deg mgl32.Vec3) mgl32.Quat {
	return EulerZYXToQuat(mgl32.Vec3{-deg[0], deg[1], -deg[2]})
}

// QuatToEulerZYX decomposes q (assumed unit length) into intrinsic Z-Y-X Euler
// angles in radians, the inverse of EulerZYXToQuat.
//
// Parameters:
//   - q: the rotation
//
// Returns:
//   - mgl32.Vec3: rotation about X, Y and Z in radians
func QuatToEulerZYX(q mgl32.Quat) mgl32.Vec3 {
	w, x, y, z := float64(q.W), float64(q.V[0]), float64(q.V[1]), float64(q.V[2])

	rx := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	sinY := 2 * (w*y - z*x)
	if sinY > 1 {
		sinY = 1
	} else if sinY < -1 {
		sinY = -1
	}
	ry := math.Asin(sinY)
	rz := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))

	return mgl32.Vec3{float32(rx), float32(ry), float32(rz)}
}
