package model

import (
	"strings"
)

// model is the implementation of the Model interface.
type model struct {
	name       string
	bones      []Bone
	skeleton   *Skeleton
	animations []*AnimationClip
	byName     map[string]*AnimationClip
}

// Model is the immutable bone/clip graph of a single authored model.
// It is produced once from parser output; the skeleton is resolved into an
// arena and every clip is bound to arena indices at construction.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skeleton retrieves the resolved bone arena.
	//
	// Returns:
	//   - *Skeleton: the skeleton (never nil, possibly empty)
	Skeleton() *Skeleton

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// AnimationCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// AnimationNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the animation clip names
	AnimationNames() []string

	// Animation looks up a clip by its exact name.
	//
	// Parameters:
	//   - name: the animation clip name
	//
	// Returns:
	//   - *AnimationClip: the clip
	//   - bool: false if no clip has that name
	Animation(name string) (*AnimationClip, bool)

	// FindAnimation looks up a clip by name ignoring case.
	//
	// Parameters:
	//   - name: the animation clip name
	//
	// Returns:
	//   - *AnimationClip: the first clip whose name matches
	//   - bool: false if none matches
	FindAnimation(name string) (*AnimationClip, bool)
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// The bone list is resolved into a Skeleton and every clip is resolved against it.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}

	if m.skeleton == nil {
		m.skeleton = NewSkeleton(m.bones)
	}
	m.byName = make(map[string]*AnimationClip, len(m.animations))
	for _, clip := range m.animations {
		clip.Resolve(m.skeleton)
		if _, exists := m.byName[clip.Name]; !exists {
			m.byName[clip.Name] = clip
		}
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) AnimationCount() int {
	return len(m.animations)
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, clip := range m.animations {
		names[i] = clip.Name
	}
	return names
}

func (m *model) Animation(name string) (*AnimationClip, bool) {
	clip, ok := m.byName[name]
	return clip, ok
}

func (m *model) FindAnimation(name string) (*AnimationClip, bool) {
	if clip, ok := m.byName[name]; ok {
		return clip, true
	}
	for _, clip := range m.animations {
		if strings.EqualFold(clip.Name, name) {
			return clip, true
		}
	}
	return nil, false
}
