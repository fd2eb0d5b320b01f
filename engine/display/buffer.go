package display

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/pose"
)

// Buffer is a Sink that stages bone updates for a consumer on another
// goroutine. It keeps the latest transform of each bone, a flat column-major
// matrix per bone and the dirty bone range since the last drain. Staged writes
// are coalesced per bone, so an undrained buffer holds at most one write per
// bone.
type Buffer struct {
	mu sync.Mutex

	transforms []pose.BoneTransform
	matrices   []float32
	staged     []Write
	stagedAt   []int // index into staged per bone, -1 when not staged

	dirty                bool
	dirtyStart, dirtyEnd int

	invalid atomic.Bool
}

var _ Sink = &Buffer{}

// NewBuffer creates a Buffer sized for boneCount bones, every matrix starting
// at identity.
//
// Parameters:
//   - boneCount: the number of bones in the rig
//
// Returns:
//   - *Buffer: the new buffer
func NewBuffer(boneCount int) *Buffer {
	b := &Buffer{
		transforms: make([]pose.BoneTransform, boneCount),
		matrices:   make([]float32, boneCount*16),
		staged:     make([]Write, 0, boneCount),
		stagedAt:   make([]int, boneCount),
	}
	for i := range boneCount {
		b.stagedAt[i] = -1
		b.transforms[i] = pose.Identity()
		common.Identity(b.matrices[i*16 : (i+1)*16])
	}
	return b
}

func (b *Buffer) Apply(bone int, name string, t pose.BoneTransform) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bone < 0 || bone >= len(b.transforms) {
		return
	}

	b.transforms[bone] = t
	t.Matrix(b.matrices[bone*16 : (bone+1)*16])
	w := Write{Bone: bone, Name: name, Transform: t}
	if at := b.stagedAt[bone]; at >= 0 {
		b.staged[at] = w
	} else {
		b.stagedAt[bone] = len(b.staged)
		b.staged = append(b.staged, w)
	}

	if !b.dirty {
		b.dirtyStart = bone
		b.dirtyEnd = bone + 1
		b.dirty = true
		return
	}
	if bone < b.dirtyStart {
		b.dirtyStart = bone
	}
	if bone+1 > b.dirtyEnd {
		b.dirtyEnd = bone + 1
	}
}

func (b *Buffer) Valid() bool {
	return !b.invalid.Load()
}

// Invalidate marks the buffer as no longer displayable. The owning rig is
// dropped on the next scheduler pass.
func (b *Buffer) Invalidate() {
	b.invalid.Store(true)
}

// Transform returns the latest transform applied to bone.
//
// Parameters:
//   - bone: arena index of the bone
//
// Returns:
//   - pose.BoneTransform: the transform
//   - bool: false if bone is out of range
func (b *Buffer) Transform(bone int) (pose.BoneTransform, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bone < 0 || bone >= len(b.transforms) {
		return pose.BoneTransform{}, false
	}
	return b.transforms[bone], true
}

// Matrix copies the 4x4 matrix of bone into out.
//
// Parameters:
//   - bone: arena index of the bone
//   - out: destination slice (must be at least 16 elements)
//
// Returns:
//   - bool: false if bone is out of range
func (b *Buffer) Matrix(bone int, out []float32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bone < 0 || bone >= len(b.transforms) {
		return false
	}
	copy(out[:16], b.matrices[bone*16:(bone+1)*16])
	return true
}

// DirtyRange returns the half-open range of bones written since the last drain.
//
// Returns:
//   - int: first dirty bone
//   - int: one past the last dirty bone
//   - bool: false if nothing was written
func (b *Buffer) DirtyRange() (int, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirtyStart, b.dirtyEnd, b.dirty
}

// StagedWrites returns and clears the pending bone writes, one per bone in the
// order each bone was first written since the last drain, each carrying the
// bone's latest transform.
//
// Returns:
//   - []Write: the pending writes
func (b *Buffer) StagedWrites() []Write {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.staged
	b.staged = make([]Write, 0, cap(out))
	for _, w := range out {
		b.stagedAt[w.Bone] = -1
	}
	b.dirty = false
	b.dirtyStart, b.dirtyEnd = 0, 0
	return out
}
