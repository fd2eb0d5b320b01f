package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClipResolveSkipsUnknownBones(t *testing.T) {
	clip := &AnimationClip{
		Name:   "wave",
		Length: 1,
		Tracks: map[string]*BoneTrack{
			"arm":  {Position: []VectorKeyframe{{Time: 0.5}, {Time: 0}}},
			"tail": {},
		},
		Events: []EventKeyframe{
			{Time: 0.9, Name: "c"},
			{Time: 0.1, Name: "b", Channel: "2"},
			{Time: 0.1, Name: "a", Channel: "1"},
		},
	}
	m := NewModel(WithName("npc"), WithBones(humanoidBones()), WithAnimations(clip))

	if len(clip.Bindings()) != 1 {
		t.Fatalf("Bindings = %d, want 1", len(clip.Bindings()))
	}
	arm, _ := m.Skeleton().IndexOf("arm")
	if clip.Bindings()[0].Bone != arm {
		t.Errorf("binding bone = %d, want %d", clip.Bindings()[0].Bone, arm)
	}
	if k := clip.Tracks["arm"].Position; k[0].Time != 0 || k[1].Time != 0.5 {
		t.Errorf("keyframes not sorted: %v", k)
	}
	names := []string{clip.Events[0].Name, clip.Events[1].Name, clip.Events[2].Name}
	if names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("event order = %v, want [a b c]", names)
	}
	if !clip.ResolvedAgainst(m.Skeleton()) {
		t.Error("clip not resolved against model skeleton")
	}
}

func TestModelLookups(t *testing.T) {
	walk := &AnimationClip{Name: "walk", Length: 1, Loop: LoopRepeat}
	idle := &AnimationClip{Name: "Idle", Length: 2, Loop: LoopRepeat}
	m := NewModel(WithName("npc"), WithBones(humanoidBones()), WithAnimations(walk, idle))

	if got, ok := m.Animation("walk"); !ok || got != walk {
		t.Error("Animation(walk) not found")
	}
	if _, ok := m.Animation("idle"); ok {
		t.Error("Animation is case-sensitive, idle should not match Idle")
	}
	if got, ok := m.FindAnimation("IDLE"); !ok || got != idle {
		t.Error("FindAnimation(IDLE) did not match Idle")
	}
	if m.AnimationCount() != 2 || m.AnimationNames()[1] != "Idle" {
		t.Errorf("AnimationNames = %v", m.AnimationNames())
	}
}

func TestNewRotationKeyframeDerivesQuat(t *testing.T) {
	k := NewRotationKeyframe(0.25, mgl32.Vec3{0, 90, 0}, InterpolationStep)
	got := k.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	if !got.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("rotated = %v, want (1,0,0)", got)
	}
}

func TestParseModes(t *testing.T) {
	if m, ok := ParseLoopMode("HOLD"); !ok || m != LoopHold {
		t.Errorf("ParseLoopMode(HOLD) = %v, %v", m, ok)
	}
	if _, ok := ParseLoopMode("bounce"); ok {
		t.Error("ParseLoopMode(bounce) accepted")
	}
	if i, ok := ParseInterpolation("catmullrom"); !ok || i != InterpolationCatmullRom {
		t.Errorf("ParseInterpolation(catmullrom) = %v, %v", i, ok)
	}
}
