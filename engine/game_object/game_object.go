package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Snapshot is the anchor state sampled once per tick.
type Snapshot struct {
	// Position is the anchor's world position.
	Position mgl32.Vec3

	// Yaw and Pitch are the look direction in degrees. Positive pitch looks down.
	Yaw, Pitch float32

	// BodyYaw is the heading of the body in degrees. Bones are composed in the
	// body frame, so gaze yaw is taken relative to it.
	BodyYaw float32

	// Valid is false once the anchor has been disabled or despawned.
	Valid bool
}

// Anchor is the read-only view of an entity that animators and compositors
// hold. It is an opaque query handle, never an owning reference.
type Anchor interface {
	// Snapshot samples the anchor's current state.
	//
	// Returns:
	//   - Snapshot: position, look angles and body yaw
	Snapshot() Snapshot
}

type gameObject struct {
	id      uuid.UUID
	enabled atomic.Bool

	mu       sync.RWMutex
	position mgl32.Vec3
	yaw      float32
	pitch    float32
	bodyYaw  float32
}

// GameObject is a minimal entity that owns the state a rig is anchored to.
// The game thread writes it through the setters while the tick reads it
// through Snapshot. Thread-safe for concurrent access.
type GameObject interface {
	Anchor

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uuid.UUID: the object ID
	ID() uuid.UUID

	// Enabled returns whether this object is alive. Disabled objects report
	// invalid snapshots.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is alive.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the object's world position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// SetPosition moves the object.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Look returns the look direction in degrees.
	//
	// Returns:
	//   - yaw, pitch: look angles
	Look() (yaw, pitch float32)

	// SetLook sets the look direction in degrees.
	//
	// Parameters:
	//   - yaw: look yaw
	//   - pitch: look pitch, positive looks down
	SetLook(yaw, pitch float32)

	// BodyYaw returns the body heading in degrees.
	BodyYaw() float32

	// SetBodyYaw sets the body heading in degrees.
	//
	// Parameters:
	//   - yaw: body heading
	SetBodyYaw(yaw float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject configured with the given options.
// A random ID is assigned unless WithID is passed.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{id: uuid.New()}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uuid.UUID {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() (x, y, z float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = mgl32.Vec3{x, y, z}
}

func (g *gameObject) Look() (yaw, pitch float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.yaw, g.pitch
}

func (g *gameObject) SetLook(yaw, pitch float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.yaw, g.pitch = yaw, pitch
}

func (g *gameObject) BodyYaw() float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.bodyYaw
}

func (g *gameObject) SetBodyYaw(yaw float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bodyYaw = yaw
}

func (g *gameObject) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Snapshot{
		Position: g.position,
		Yaw:      g.yaw,
		Pitch:    g.pitch,
		BodyYaw:  g.bodyYaw,
		Valid:    g.enabled.Load(),
	}
}
