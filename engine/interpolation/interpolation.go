// Package interpolation evaluates keyframe channels and provides the scalar,
// vector and angle helpers the animator blends with.
package interpolation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec3 linearly interpolates between a and b per component.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// Smoothstep maps t in [0,1] onto 3t²−2t³, clamping outside the range.
func Smoothstep(t float32) float32 {
	t = mgl32.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// WrapDegrees wraps an angle into [-180, 180).
func WrapDegrees(deg float32) float32 {
	w := float32(math.Mod(float64(deg)+180, 360))
	if w < 0 {
		w += 360
	}
	return w - 180
}

// LerpAngle interpolates between two angles in degrees along the shortest arc,
// so 350 → 10 passes through 0 rather than 180.
//
// Parameters:
//   - a: start angle in degrees
//   - b: end angle in degrees
//   - t: interpolation factor
//
// Returns:
//   - float32: the interpolated angle, continuous with a
func LerpAngle(a, b, t float32) float32 {
	return a + WrapDegrees(b-a)*t
}

// CatmullRom evaluates a uniform Catmull-Rom spline segment between p1 and p2.
//
// Parameters:
//   - p0, p1, p2, p3: the four control points, the curve passes through p1 and p2
//   - t: local progress in [0,1]
//
// Returns:
//   - mgl32.Vec3: the point on the segment
func CatmullRom(p0, p1, p2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	t2 := t * t
	t3 := t2 * t
	var out mgl32.Vec3
	for i := range out {
		out[i] = 0.5 * (2*p1[i] +
			(-p0[i]+p2[i])*t +
			(2*p0[i]-5*p1[i]+4*p2[i]-p3[i])*t2 +
			(-p0[i]+3*p1[i]-3*p2[i]+p3[i])*t3)
	}
	return out
}

// Bezier evaluates a cubic Bezier segment from p0 to p3 with control points c1 and c2.
func Bezier(p0, c1, c2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.CubicBezierCurve3D(t, p0, c1, c2, p3)
}
