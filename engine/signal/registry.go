package signal

import (
	"sync"

	"github.com/google/uuid"
)

// Handler reacts to a signal routed by a Registry.
type Handler func(sig Signal)

type registryKey struct {
	entity uuid.UUID
	name   string
}

// Registry routes signals to handlers keyed by (entity, event name).
// Handlers registered for uuid.Nil receive the named event from every entity.
// Safe for concurrent registration and dispatch.
type Registry struct {
	mu       sync.RWMutex
	handlers map[registryKey][]Handler
}

var _ Sink = &Registry{}

// NewRegistry creates an empty Registry.
//
// Returns:
//   - *Registry: the registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[registryKey][]Handler)}
}

// On registers h for the named event fired by entity. Pass uuid.Nil to listen
// on every entity.
//
// Parameters:
//   - entity: the entity id, or uuid.Nil for all entities
//   - name: the event name
//   - h: the handler
func (r *Registry) On(entity uuid.UUID, name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := registryKey{entity: entity, name: name}
	r.handlers[k] = append(r.handlers[k], h)
}

// Forget drops every handler registered for entity.
func (r *Registry) Forget(entity uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.handlers {
		if k.entity == entity {
			delete(r.handlers, k)
		}
	}
}

// Dispatch calls the handlers registered for the signal's entity first, then
// the wildcard handlers for its name.
func (r *Registry) Dispatch(sig Signal) {
	r.mu.RLock()
	direct := r.handlers[registryKey{entity: sig.Entity, name: sig.Name}]
	var wildcard []Handler
	if sig.Entity != uuid.Nil {
		wildcard = r.handlers[registryKey{entity: uuid.Nil, name: sig.Name}]
	}
	r.mu.RUnlock()

	for _, h := range direct {
		h(sig)
	}
	for _, h := range wildcard {
		h(sig)
	}
}
