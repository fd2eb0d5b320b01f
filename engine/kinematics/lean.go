package kinematics

import (
	"math"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

const backwardEpsilon float32 = 1e-6

// leanFilter turns per-tick anchor movement into a smoothed yaw offset.
// Sideways movement past cfg.Enter starts a lean, which is held until the
// sideways share drops under cfg.Exit.
type leanFilter struct {
	cfg config.Lean

	current float32
	target  float32
	leaning bool

	last    mgl32.Vec3
	hasLast bool
}

func (f *leanFilter) step(s game_object.Snapshot) {
	f.target = 0
	if !s.Valid {
		f.leaning = false
		f.hasLast = false
	} else {
		if !f.hasLast {
			f.last = s.Position
			f.hasLast = true
		}
		move := s.Position.Sub(f.last)
		f.last = s.Position
		move[1] = 0
		f.target = f.decide(move, s.BodyYaw)
	}

	f.current += (f.target - f.current) * f.cfg.Smoothing
	if mgl32.Abs(f.target-f.current) <= f.cfg.DeadBand {
		f.current = f.target
	}
}

// decide returns the lean target for one tick of horizontal movement.
func (f *leanFilter) decide(move mgl32.Vec3, bodyYaw float32) float32 {
	speed := move.Len()
	if speed < f.cfg.MinSpeed {
		f.leaning = false
		return 0
	}

	yaw := float64(bodyYaw) * math.Pi / 180
	forward := mgl32.Vec3{-float32(math.Sin(yaw)), 0, float32(math.Cos(yaw))}
	sideways := (forward[2]*move[0] - forward[0]*move[2]) / speed

	threshold := f.cfg.Enter
	if f.leaning {
		threshold = f.cfg.Exit
	}
	if mgl32.Abs(sideways) < threshold {
		f.leaning = false
		return 0
	}

	f.leaning = true
	dir := common.Sign(sideways)
	// Movement square to the heading counts as forward.
	if forward.Dot(move) < -backwardEpsilon*speed {
		dir = -dir
	}
	return f.cfg.Angle * dir
}

func (f *leanFilter) settled() bool {
	return f.current == f.target
}
