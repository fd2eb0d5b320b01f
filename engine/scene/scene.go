package scene

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-rig/engine/animator"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/display"
	"github.com/Carmen-Shannon/oxy-rig/engine/game_object"
	"github.com/Carmen-Shannon/oxy-rig/engine/kinematics"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/signal"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// ErrDuplicateRig is returned by Add when the object already has a rig in the scene.
var ErrDuplicateRig = errors.New("scene: duplicate rig")

// rigComponent stores each rig on a Donburi entity.
type rigComponent struct {
	rig *Rig
}

var rigType = donburi.NewComponentType[rigComponent]()

// TickStats summarises one Update.
type TickStats struct {
	// Rigs is the number of rigs ticked.
	Rigs int

	// Composed counts rigs whose pose was composed and pushed to their sink.
	Composed int

	// Skipped counts rigs that neither changed nor moved.
	Skipped int

	// Removed counts rigs dropped because their display sink became invalid.
	Removed int

	// Signals is the number of animation events delivered.
	Signals int

	// Duration is the wall time Update took.
	Duration time.Duration
}

// Scene is the registry of rigs driven by one tick. It owns the entity to rig
// table, fans the per-rig work of a tick across a worker pool and delivers the
// animation events of every rig in registration order once all rigs are done.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// World returns the Donburi world rigs are stored in. Signals published by
	// the default sink are processed on this world at the end of each Update.
	//
	// Returns:
	//   - donburi.World: the world
	World() donburi.World

	// Config returns the configuration new rigs are built with.
	Config() config.Config

	// Add builds a rig for obj: an animator over m anchored to obj and tagged
	// with its id, and a compositor pushing to sink. Animation events are
	// buffered per rig and delivered by Update.
	//
	// Parameters:
	//   - obj: the entity the rig follows (must not be nil)
	//   - m: the model to animate (must not be nil)
	//   - sink: where composed bone transforms go (may be nil)
	//   - options: extra animator options, applied after the scene configuration
	//
	// Returns:
	//   - *Rig: the new rig
	//   - error: ErrDuplicateRig if obj already has a rig
	Add(obj game_object.GameObject, m model.Model, sink display.Sink, options ...animator.AnimatorBuilderOption) (*Rig, error)

	// Get looks up the rig of an entity.
	//
	// Parameters:
	//   - id: the entity id
	//
	// Returns:
	//   - *Rig: the rig
	//   - bool: false if the entity has no rig
	Get(id uuid.UUID) (*Rig, bool)

	// Remove drops the rig of an entity. Pending signals of the rig are discarded.
	//
	// Parameters:
	//   - id: the entity id
	//
	// Returns:
	//   - bool: false if the entity had no rig
	Remove(id uuid.UUID) bool

	// Count returns the number of registered rigs.
	Count() int

	// Clear removes every rig.
	Clear()

	// Update runs one tick: rigs whose display sink reports invalid are
	// removed, every other rig advances its animator by dt and is composed when
	// its pose changed, its anchor moved or its lean is still settling.
	//
	// Parameters:
	//   - dt: elapsed simulation time in seconds
	//
	// Returns:
	//   - TickStats: what the tick did
	Update(dt float32) TickStats
}

type scene struct {
	mu *sync.RWMutex

	name  string
	cfg   config.Config
	world donburi.World
	query *donburi.Query

	registry map[uuid.UUID]donburi.Entity
	nextSeq  uint64

	signals signal.Sink

	// rigPool is reused across ticks to collect the rigs of the current tick.
	rigPool []*Rig

	// computePool runs the parallel per-rig phase of Update. Nil when rigs are
	// updated sequentially.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

var _ Scene = &scene{}

// NewScene creates an empty Scene. Without WithSignalSink animation events are
// published to signal.SignalEventType on the scene's world.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		cfg:            config.Default(),
		world:          donburi.NewWorld(),
		query:          donburi.NewQuery(filter.Contains(rigType)),
		registry:       make(map[uuid.UUID]donburi.Entity),
		computeWorkers: 1,
	}

	for _, option := range options {
		option(s)
	}

	if s.signals == nil {
		s.signals = signal.NewDonburiSink(s.world)
	}

	// Queue size of 256 leaves headroom for scenes with many rigs per worker.
	if s.computeWorkers > 1 {
		s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	}

	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) World() donburi.World {
	return s.world
}

func (s *scene) Config() config.Config {
	return s.cfg
}

func (s *scene) Add(obj game_object.GameObject, m model.Model, sink display.Sink, options ...animator.AnimatorBuilderOption) (*Rig, error) {
	if obj == nil {
		panic("scene: cannot Add a nil GameObject")
	}
	if m == nil {
		panic("scene: cannot Add a rig without a Model")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := obj.ID()
	if _, ok := s.registry[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRig, id)
	}

	r := &Rig{
		object: obj,
		seq:    s.nextSeq,
	}
	s.nextSeq++

	opts := []animator.AnimatorBuilderOption{
		animator.WithConfig(s.cfg),
		animator.WithEntity(id),
		animator.WithAnchor(obj),
	}
	opts = append(opts, options...)
	opts = append(opts, animator.WithSignalSink(&r.queue))
	r.animator = animator.NewAnimator(m, opts...)
	r.compositor = kinematics.NewCompositor(m.Skeleton(),
		kinematics.WithConfig(s.cfg),
		kinematics.WithAnchor(obj),
		kinematics.WithSink(sink),
	)

	entity := s.world.Create(rigType)
	rigType.SetValue(s.world.Entry(entity), rigComponent{rig: r})
	s.registry[id] = entity
	return r, nil
}

func (s *scene) Get(id uuid.UUID) (*Rig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.registry[id]
	if !ok {
		return nil, false
	}
	return rigType.Get(s.world.Entry(entity)).rig, true
}

func (s *scene) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(id)
}

// remove must be called with s.mu held.
func (s *scene) remove(id uuid.UUID) bool {
	entity, ok := s.registry[id]
	if !ok {
		return false
	}
	delete(s.registry, id)
	s.world.Remove(entity)
	return true
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.registry {
		s.remove(id)
	}
}

func (s *scene) Update(dt float32) TickStats {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats TickStats

	// Collect rigs in registration order and drop the ones that can no longer
	// display anything before doing any work for them.
	rigs := s.rigPool[:0]
	s.query.Each(s.world, func(entry *donburi.Entry) {
		rigs = append(rigs, rigType.Get(entry).rig)
	})
	sort.Slice(rigs, func(i, j int) bool { return rigs[i].seq < rigs[j].seq })

	live := rigs[:0]
	for _, r := range rigs {
		if sink := r.compositor.Sink(); sink != nil && !sink.Valid() {
			log.Printf("[Scene] %s: rig %s removed, display sink is no longer valid", s.name, r.ID())
			s.remove(r.ID())
			stats.Removed++
			continue
		}
		live = append(live, r)
	}
	rigs = live
	stats.Rigs = len(rigs)

	// Phase 1 (parallel): every rig touches only its own state. Signals land
	// in the rig's queue.
	var composed atomic.Int32
	if s.computePool == nil || len(rigs) < 2 {
		for _, r := range rigs {
			if r.tick(dt) {
				composed.Add(1)
			}
		}
	} else {
		var wg sync.WaitGroup
		for i, r := range rigs {
			wg.Add(1)
			rCap := r
			s.computePool.SubmitTask(worker.Task{
				ID: i,
				Do: func() (any, error) {
					defer wg.Done()
					if rCap.tick(dt) {
						composed.Add(1)
					}
					return nil, nil
				},
			})
		}
		wg.Wait()
	}
	stats.Composed = int(composed.Load())
	stats.Skipped = stats.Rigs - stats.Composed

	// Phase 2 (serial): deliver signals rig by rig in registration order.
	for _, r := range rigs {
		stats.Signals += r.queue.Flush(s.signals)
	}
	signal.SignalEventType.ProcessEvents(s.world)

	clear(rigs)
	s.rigPool = rigs[:0]
	stats.Duration = time.Since(start)
	return stats
}

// DefaultComputeWorkers returns one worker per CPU, keeping one CPU for the caller.
func DefaultComputeWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}
