package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/display"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/signal"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

func testModel() model.Model {
	return model.NewModel(
		model.WithName("villager"),
		model.WithBones([]model.Bone{
			{ID: "body", Name: "body", Children: []string{"head"}},
			{ID: "head", Name: "head", Pivot: mgl32.Vec3{0, 24, 0}, Tags: []string{"gaze"}},
		}),
		model.WithAnimations(
			&model.AnimationClip{
				Name:   "wave",
				Length: 1,
				Loop:   model.LoopOnce,
				Tracks: map[string]*model.BoneTrack{
					"head": {Position: []model.VectorKeyframe{
						{Time: 0, Value: mgl32.Vec3{}},
						{Time: 1, Value: mgl32.Vec3{0, 4, 0}},
					}},
				},
				Events: []model.EventKeyframe{{Time: 0.1, Name: "hello"}},
			},
		),
	)
}

func collect(got *[]signal.Signal) signal.Sink {
	return signal.SinkFunc(func(sig signal.Signal) {
		*got = append(*got, sig)
	})
}

func TestAddGetRemove(t *testing.T) {
	s := NewScene("test")
	obj := game_object.NewGameObject()

	rig, err := s.Add(obj, testModel(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rig.ID() != obj.ID() || rig.Object() != obj {
		t.Error("rig does not follow its object")
	}
	if got, ok := s.Get(obj.ID()); !ok || got != rig {
		t.Errorf("Get = %v %v", got, ok)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}

	if _, err := s.Add(obj, testModel(), nil); !errors.Is(err, ErrDuplicateRig) {
		t.Errorf("second Add error = %v, want ErrDuplicateRig", err)
	}

	if !s.Remove(obj.ID()) {
		t.Error("Remove reported a miss")
	}
	if s.Remove(obj.ID()) {
		t.Error("second Remove should miss")
	}
	if _, ok := s.Get(obj.ID()); ok || s.Count() != 0 {
		t.Error("rig still registered after Remove")
	}
}

func TestUpdateComposesAndSkips(t *testing.T) {
	s := NewScene("test")
	obj := game_object.NewGameObject()
	m := testModel()
	buf := display.NewBuffer(m.Skeleton().Len())
	rig, _ := s.Add(obj, m, buf)

	stats := s.Update(0.05)
	if stats.Rigs != 1 || stats.Composed != 1 {
		t.Fatalf("first tick stats = %+v, want one composed rig", stats)
	}
	if n := len(buf.StagedWrites()); n != 2 {
		t.Errorf("staged %d writes, want 2", n)
	}

	stats = s.Update(0.05)
	if stats.Skipped != 1 || stats.Composed != 0 {
		t.Errorf("idle tick stats = %+v, want skipped", stats)
	}

	if err := rig.Animator().Play("wave", 1, true); err != nil {
		t.Fatal(err)
	}
	stats = s.Update(0.5)
	if stats.Composed != 1 {
		t.Errorf("playing tick stats = %+v, want composed", stats)
	}
	head, _ := m.Skeleton().IndexOf("head")
	tr, _ := buf.Transform(head)
	if tr.Translation.Y() <= 1.5 {
		t.Errorf("head translation %v did not move up", tr.Translation)
	}

	obj.SetPosition(0, 3, 0)
	if stats = s.Update(0.05); stats.Composed != 1 {
		t.Errorf("moving anchor should compose, stats = %+v", stats)
	}
}

func TestUpdateRemovesInvalidSinks(t *testing.T) {
	s := NewScene("test")
	m := testModel()
	keep := display.NewBuffer(m.Skeleton().Len())
	drop := display.NewBuffer(m.Skeleton().Len())

	a, _ := s.Add(game_object.NewGameObject(), m, keep)
	b, _ := s.Add(game_object.NewGameObject(), m, drop)
	drop.Invalidate()

	stats := s.Update(0.05)
	if stats.Removed != 1 || stats.Rigs != 1 {
		t.Errorf("stats = %+v, want one removed and one ticked", stats)
	}
	if _, ok := s.Get(b.ID()); ok {
		t.Error("rig with invalid sink still registered")
	}
	if _, ok := s.Get(a.ID()); !ok {
		t.Error("valid rig was removed")
	}
}

func TestSignalsDeliveredInRegistrationOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		var got []signal.Signal
		s := NewScene("test", WithComputeWorkers(workers), WithSignalSink(collect(&got)))
		m := testModel()

		var rigs []*Rig
		for range 5 {
			rig, err := s.Add(game_object.NewGameObject(), m, nil)
			if err != nil {
				t.Fatal(err)
			}
			_ = rig.Animator().Play("wave", 1, true)
			rigs = append(rigs, rig)
		}

		stats := s.Update(0.2)
		if stats.Signals != len(rigs) || len(got) != len(rigs) {
			t.Fatalf("workers=%d: delivered %d signals (stats %d), want %d", workers, len(got), stats.Signals, len(rigs))
		}
		for i, sig := range got {
			if sig.Entity != rigs[i].ID() || sig.Name != "hello" || sig.Context.Clip != "wave" {
				t.Errorf("workers=%d: signal %d = %+v, want rig %s", workers, i, sig, rigs[i].ID())
			}
		}
	}
}

func TestDefaultSinkPublishesOnWorld(t *testing.T) {
	s := NewScene("test")
	var got []string
	signal.SignalEventType.Subscribe(s.World(), func(w donburi.World, sig signal.Signal) {
		got = append(got, sig.Name)
	})

	rig, _ := s.Add(game_object.NewGameObject(), testModel(), nil)
	_ = rig.Animator().Play("wave", 1, true)
	s.Update(0.2)

	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("world subscribers got %v, want [hello]", got)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 3
	cfg.IdleClip = "rest"
	s := NewScene("test", WithConfig(cfg)).(*scene)

	if s.computeWorkers != 3 || s.computePool == nil {
		t.Errorf("computeWorkers = %d pool %v", s.computeWorkers, s.computePool)
	}
	if s.Config().IdleClip != "rest" {
		t.Errorf("Config().IdleClip = %q", s.Config().IdleClip)
	}
}

func TestSkippedTicksStillTrackMovement(t *testing.T) {
	cfg := config.Default()
	cfg.Anchor.PositionEpsilon = 0.1
	s := NewScene("test", WithConfig(cfg))
	obj := game_object.NewGameObject()
	rig, _ := s.Add(obj, testModel(), nil)
	s.Update(0.05)

	var x float32
	for range 10 {
		x += 0.005
		obj.SetPosition(x, 0, 0)
		if stats := s.Update(0.05); stats.Skipped != 1 {
			t.Fatalf("drift under the anchor epsilon should skip, stats = %+v", stats)
		}
	}

	_ = rig.Animator().Play("wave", 1, true)
	if stats := s.Update(0.05); stats.Composed != 1 {
		t.Fatalf("playing tick stats = %+v, want composed", stats)
	}
	if yaw := rig.Compositor().LeanYaw(); yaw != 0 {
		t.Errorf("LeanYaw = %v, want 0 for movement under the minimum speed", yaw)
	}
}

func TestClear(t *testing.T) {
	s := NewScene("test")
	for range 3 {
		_, _ = s.Add(game_object.NewGameObject(), testModel(), nil)
	}
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count = %d after Clear", s.Count())
	}
	if stats := s.Update(0.05); stats.Rigs != 0 {
		t.Errorf("Update after Clear ticked %d rigs", stats.Rigs)
	}
}
