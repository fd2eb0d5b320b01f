package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

func testModel() model.Model {
	return model.NewModel(
		model.WithBones([]model.Bone{{ID: "body", Name: "body"}}),
		model.WithAnimations(&model.AnimationClip{Name: "idle", Length: 1, Loop: model.LoopRepeat}),
	)
}

func TestTickRate(t *testing.T) {
	e := NewEngine()
	if got := e.TickPeriod(); got != 50*time.Millisecond {
		t.Errorf("default period = %v, want 50ms", got)
	}
	e.SetTickRate(40)
	if got := e.TickPeriod(); got != 25*time.Millisecond {
		t.Errorf("period = %v, want 25ms", got)
	}
	e.SetTickRate(-1)
	if got := e.TickPeriod(); got != 50*time.Millisecond {
		t.Errorf("period for invalid rate = %v, want default", got)
	}

	cfg := config.Default()
	cfg.TickRate = 10
	if got := NewEngine(WithConfig(cfg)).TickPeriod(); got != 100*time.Millisecond {
		t.Errorf("configured period = %v, want 100ms", got)
	}
}

func TestStepUpdatesScenesInOrder(t *testing.T) {
	var order []string
	e := NewEngine(WithTickCallback(func(dt float32) {
		order = append(order, "callback")
	}))

	for _, key := range []int{2, 1} {
		s := scene.NewScene("scene")
		_, _ = s.Add(game_object.NewGameObject(), testModel(), nil)
		e.AddScene(key, s)
	}

	stats := e.Step(0.05)
	if stats.Rigs != 2 || stats.Composed != 2 {
		t.Errorf("stats = %+v, want two composed rigs", stats)
	}
	if len(order) != 1 {
		t.Errorf("callback ran %d times, want 1", len(order))
	}

	if _, ok := e.Scene(1); !ok {
		t.Error("scene 1 missing")
	}
	e.RemoveScene(1)
	if _, ok := e.Scene(1); ok || len(e.Scenes()) != 1 {
		t.Error("RemoveScene did not remove")
	}
}

func TestRunStopsOnQuitAndContext(t *testing.T) {
	ticks := make(chan float32, 16)
	e := NewEngine(WithTickRate(200), WithTickCallback(func(dt float32) {
		select {
		case ticks <- dt:
		default:
		}
	}))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case dt := <-ticks:
		if dt != 0.005 {
			t.Errorf("dt = %v, want the fixed period 0.005", dt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}

	e.Quit()
	e.Quit()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after Quit = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewEngine().Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run with cancelled context = %v, want context.Canceled", err)
	}
}
