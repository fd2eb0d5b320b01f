package engine

import (
	"context"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

// DefaultTickRate is the simulation rate in Hz used when none is configured.
const DefaultTickRate = 20

// engine implements the Engine interface.
type engine struct {
	mu *sync.RWMutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	tickRate        time.Duration

	running atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(deltaTime float32)

	scenes map[int]scene.Scene
}

// Engine drives scenes at a fixed simulation rate. Every tick advances each
// scene by exactly one tick period, so animation time is independent of how
// late the tick fired.
type Engine interface {
	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the simulation rate in ticks per second. Takes effect
	// immediately when the engine is running.
	//
	// Parameters:
	//   - hz: target ticks per second (defaults to 20 if <= 0)
	SetTickRate(hz float64)

	// TickPeriod returns the simulation time one tick advances.
	//
	// Returns:
	//   - time.Duration: the tick period
	TickPeriod() time.Duration

	// SetTickCallback registers the function called at the start of each tick,
	// before scenes update. Use it to move anchors and start clips.
	//
	// Parameters:
	//   - callback: function receiving the tick's delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// AddScene registers a scene at the given key. Scenes update in ascending
	// key order.
	//
	// Parameters:
	//   - key: the update order key
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given key.
	//
	// Parameters:
	//   - key: the key of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given key.
	//
	// Parameters:
	//   - key: the key of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene
	//   - bool: false if no scene is registered at key
	Scene(key int) (scene.Scene, bool)

	// Scenes returns a copy of all registered scenes keyed by update order.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Step runs a single tick of dt seconds on the calling goroutine.
	//
	// Parameters:
	//   - dt: simulation time in seconds
	//
	// Returns:
	//   - scene.TickStats: the combined stats of every scene
	Step(dt float32) scene.TickStats

	// Run ticks at the configured rate until ctx is cancelled or Quit is
	// called. Blocks.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() if the context ended the loop, nil after Quit
	Run(ctx context.Context) error

	// Quit stops a running engine. Safe to call multiple times; subsequent
	// calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.RWMutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		profiler:        profiler.NewProfiler(),
		tickRate:        period(DefaultTickRate),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func period(hz float64) time.Duration {
	if hz <= 0 {
		hz = DefaultTickRate
	}
	return time.Duration(float64(time.Second) / hz)
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		log.Printf("[Engine] Run called on a running engine")
		return nil
	}
	defer e.running.Store(false)

	e.mu.RLock()
	rate := e.tickRate
	e.mu.RUnlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case <-ticker.C:
			e.Step(float32(rate.Seconds()))
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			rate = newRate
		}
	}
}

func (e *engine) Step(dt float32) scene.TickStats {
	e.mu.RLock()
	callback := e.tickCallback
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	scenes := make([]scene.Scene, len(keys))
	for i, k := range keys {
		scenes[i] = e.scenes[k]
	}
	profiling := e.profilingEnabled
	e.mu.RUnlock()

	if callback != nil {
		callback(dt)
	}

	var total scene.TickStats
	for _, s := range scenes {
		st := s.Update(dt)
		total.Rigs += st.Rigs
		total.Composed += st.Composed
		total.Skipped += st.Skipped
		total.Removed += st.Removed
		total.Signals += st.Signals
		total.Duration += st.Duration
	}

	if profiling && e.profiler != nil {
		e.profiler.Tick(profiler.Sample{
			Rigs:     total.Rigs,
			Composed: total.Composed,
			Skipped:  total.Skipped,
			Removed:  total.Removed,
			Signals:  total.Signals,
			Duration: total.Duration,
		})
	}
	return total
}

// Quit signals Run to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the simulation rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(hz float64) {
	newRate := period(hz)

	e.mu.Lock()
	e.tickRate = newRate
	e.mu.Unlock()

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	}
}

func (e *engine) TickPeriod() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickRate
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) (scene.Scene, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.scenes[key]
	return s, ok
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
