package kinematics

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
)

func newLeanFilter() *leanFilter {
	return &leanFilter{cfg: config.DefaultLean()}
}

func moving(pos mgl32.Vec3) game_object.Snapshot {
	return game_object.Snapshot{Position: pos, Valid: true}
}

func TestLeanConvergesAndSettles(t *testing.T) {
	f := newLeanFilter()
	var pos mgl32.Vec3
	f.step(moving(pos))
	if f.current != 0 || !f.settled() {
		t.Fatalf("first tick has no movement, current = %v", f.current)
	}

	pos[0] += 0.5
	f.step(moving(pos))
	if f.target != 45 {
		t.Fatalf("target = %v, want 45", f.target)
	}
	if mgl32.Abs(f.current-24.75) > 1e-4 {
		t.Errorf("first filtered value = %v, want 24.75", f.current)
	}

	for range 20 {
		pos[0] += 0.5
		f.step(moving(pos))
	}
	if f.current != 45 || !f.settled() {
		t.Errorf("current = %v settled = %v, want 45 settled", f.current, f.settled())
	}

	for range 20 {
		f.step(moving(pos))
	}
	if f.current != 0 || !f.settled() {
		t.Errorf("after stopping current = %v, want 0", f.current)
	}
}

func TestLeanFollowsSideAndDirection(t *testing.T) {
	tests := []struct {
		name    string
		bodyYaw float32
		move    mgl32.Vec3
		want    float32
	}{
		{"right", 0, mgl32.Vec3{0.5, 0, 0}, 45},
		{"left", 0, mgl32.Vec3{-0.5, 0, 0}, -45},
		{"forward", 0, mgl32.Vec3{0, 0, 0.5}, 0},
		{"backward diagonal", 0, mgl32.Vec3{0.5, 0, -0.5}, -45},
		{"turned body", 90, mgl32.Vec3{0, 0, 0.5}, 45},
		{"too slow", 0, mgl32.Vec3{0.005, 0, 0}, 0},
		{"vertical only", 0, mgl32.Vec3{0, 1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLeanFilter()
			snap := moving(mgl32.Vec3{})
			snap.BodyYaw = tt.bodyYaw
			f.step(snap)
			snap.Position = tt.move
			f.step(snap)
			if f.target != tt.want {
				t.Errorf("target = %v, want %v", f.target, tt.want)
			}
		})
	}
}

func TestLeanHysteresis(t *testing.T) {
	// 0.4 of the movement is sideways: between the exit and enter thresholds.
	partial := mgl32.Vec3{0.4, 0, float32(math.Sqrt(1 - 0.16))}.Mul(0.5)

	f := newLeanFilter()
	var pos mgl32.Vec3
	f.step(moving(pos))
	pos = pos.Add(partial)
	f.step(moving(pos))
	if f.target != 0 {
		t.Errorf("entering at 0.4 sideways: target = %v, want 0", f.target)
	}

	pos = pos.Add(mgl32.Vec3{0.5, 0, 0})
	f.step(moving(pos))
	pos = pos.Add(partial)
	f.step(moving(pos))
	if f.target != 45 {
		t.Errorf("holding at 0.4 sideways: target = %v, want 45", f.target)
	}

	pos = pos.Add(mgl32.Vec3{0.1, 0, 0.5})
	f.step(moving(pos))
	if f.target != 0 {
		t.Errorf("exiting below 0.25 sideways: target = %v, want 0", f.target)
	}
}

func TestLeanResetsOnInvalidAnchor(t *testing.T) {
	f := newLeanFilter()
	f.step(moving(mgl32.Vec3{}))
	f.step(moving(mgl32.Vec3{0.5, 0, 0}))
	f.step(game_object.Snapshot{})
	if f.target != 0 || f.hasLast {
		t.Errorf("invalid anchor: target %v hasLast %v", f.target, f.hasLast)
	}
	f.step(moving(mgl32.Vec3{10, 0, 0}))
	if f.target != 0 {
		t.Errorf("first tick after revalidation should not lean, target = %v", f.target)
	}
}

func TestLeanRotatesRootsButNotGaze(t *testing.T) {
	s := model.NewSkeleton([]model.Bone{
		{ID: "body", Name: "body", Children: []string{"arm"}},
		{ID: "arm", Name: "arm", Pivot: mgl32.Vec3{0, 0, 16}},
		{ID: "eyes", Name: "eyes", Tags: []string{"gaze"}},
	})
	anchor := game_object.NewGameObject()
	c := NewCompositor(s, WithAnchor(anchor), WithLean(config.Lean{
		Angle: 90, Smoothing: 1, DeadBand: 0.35, Enter: 0.5, Exit: 0.25, MinSpeed: 0.01,
	}))

	local := pose.BindPose(s)
	c.Update(local)
	anchor.SetPosition(0.5, 0, 0)
	c.Update(local)

	if c.LeanYaw() != 90 || !c.Settled() {
		t.Fatalf("LeanYaw = %v settled %v, want 90", c.LeanYaw(), c.Settled())
	}

	body, _ := c.WorldTransform(0)
	assertQuat(t, "body rotation", body.Rotation, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))

	arm, _ := c.WorldTransform(1)
	assertVec(t, "arm translation", arm.Translation, mgl32.Vec3{-1, 0, 0})

	eyes, _ := c.WorldTransform(2)
	assertQuat(t, "gaze rotation", eyes.Rotation, mgl32.QuatIdent())
}

func TestObserveMeasuresMovementPerTick(t *testing.T) {
	s := twoBoneSkeleton(mgl32.Vec3{0, 16, 0})
	anchor := game_object.NewGameObject()
	c := NewCompositor(s, WithAnchor(anchor))
	local := pose.BindPose(s)
	c.Update(local)

	// Each step stays under MinSpeed; only their sum would pass it.
	var x float32
	for range 10 {
		x += 0.005
		anchor.SetPosition(x, 0, 0)
		c.Observe()
	}
	c.Update(local)
	if c.LeanYaw() != 0 || !c.Settled() {
		t.Errorf("slow drift leaned: LeanYaw = %v settled %v", c.LeanYaw(), c.Settled())
	}

	anchor.SetPosition(x+0.5, 0, 0)
	c.Observe()
	c.Update(local)
	if mgl32.Abs(c.LeanYaw()-24.75) > 1e-4 {
		t.Errorf("Update after Observe stepped again: LeanYaw = %v, want 24.75", c.LeanYaw())
	}
}
