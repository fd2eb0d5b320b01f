package game_object

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uuid.UUID) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject starts enabled.
//
// Parameters:
//   - enabled: false to start with invalid snapshots
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial world position of the GameObject.
//
// Parameters:
//   - x, y, z: initial position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithLook sets the initial look direction of the GameObject.
//
// Parameters:
//   - yaw, pitch: look angles in degrees
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the look angles
func WithLook(yaw, pitch float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.yaw, obj.pitch = yaw, pitch
	}
}

// WithBodyYaw sets the initial body heading of the GameObject.
//
// Parameters:
//   - yaw: body heading in degrees
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the body yaw
func WithBodyYaw(yaw float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.bodyYaw = yaw
	}
}
