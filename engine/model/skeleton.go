package model

import (
	"log"
)

// BoneFlags classify bones once at load time so the per-tick walk never
// inspects tags or names.
type BoneFlags uint8

const (
	// FlagGaze marks bones that follow the anchor's look direction. Inherited
	// by every descendant of a tagged bone.
	FlagGaze BoneFlags = 1 << iota
	// FlagHandle marks attachment points: composed but not displayed.
	FlagHandle
	// FlagHidden marks bones whose visibility flag is off.
	FlagHidden
)

// Skeleton is the dense arena form of a bone hierarchy. Bones are stored in
// topological order, so every parent index is smaller than its child's index
// and a single forward pass visits parents before children.
type Skeleton struct {
	// Bones is the arena of bones in topological order.
	Bones []Bone

	// Parents holds the parent index of each bone (-1 for roots).
	Parents []int

	// Children holds the child indices of each bone.
	Children [][]int

	// Roots are the indices of bones without a parent.
	Roots []int

	// Flags holds the precomputed classification of each bone.
	Flags []BoneFlags

	indexByID map[string]int
}

// NewSkeleton resolves a raw bone list into an arena. Parent/child edges come
// only from child ids that name another bone; roots are bones that no bone
// lists as a child. A bone listed by several parents keeps the first one, and
// bones caught in a cycle are promoted to roots.
//
// Parameters:
//   - bones: the raw bones as produced by the parser
//
// Returns:
//   - *Skeleton: the resolved skeleton
func NewSkeleton(bones []Bone) *Skeleton {
	raw := make([]Bone, 0, len(bones))
	rawIndex := make(map[string]int, len(bones))
	for _, b := range bones {
		if _, dup := rawIndex[b.ID]; dup {
			log.Printf("[Model] duplicate bone id %q ignored", b.ID)
			continue
		}
		rawIndex[b.ID] = len(raw)
		raw = append(raw, b)
	}

	parent := make([]int, len(raw))
	for i := range parent {
		parent[i] = -1
	}
	children := make([][]int, len(raw))
	for p, b := range raw {
		for _, childID := range b.Children {
			c, ok := rawIndex[childID]
			if !ok || c == p {
				continue
			}
			if parent[c] != -1 {
				log.Printf("[Model] bone %q already parented to %q, ignoring %q", childID, raw[parent[c]].ID, b.ID)
				continue
			}
			parent[c] = p
			children[p] = append(children[p], c)
		}
	}

	sorted := make([]int, 0, len(raw))
	visited := make([]bool, len(raw))
	walk := func(root int) {
		queue := []int{root}
		visited[root] = true
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			sorted = append(sorted, idx)
			for _, c := range children[idx] {
				if !visited[c] {
					visited[c] = true
					queue = append(queue, c)
				}
			}
		}
	}
	for i := range raw {
		if parent[i] == -1 {
			walk(i)
		}
	}
	// Anything left over sits on a cycle; cut it at the first unvisited bone.
	for i := range raw {
		if !visited[i] {
			log.Printf("[Model] bone %q is part of a parent cycle, treating as root", raw[i].ID)
			if p := parent[i]; p != -1 {
				children[p] = removeIndex(children[p], i)
			}
			parent[i] = -1
			walk(i)
		}
	}

	oldToNew := make([]int, len(raw))
	for newIdx, oldIdx := range sorted {
		oldToNew[oldIdx] = newIdx
	}

	s := &Skeleton{
		Bones:     make([]Bone, len(sorted)),
		Parents:   make([]int, len(sorted)),
		Children:  make([][]int, len(sorted)),
		Flags:     make([]BoneFlags, len(sorted)),
		indexByID: make(map[string]int, len(sorted)),
	}
	for newIdx, oldIdx := range sorted {
		b := raw[oldIdx]
		s.Bones[newIdx] = b
		s.indexByID[b.ID] = newIdx

		if p := parent[oldIdx]; p >= 0 {
			s.Parents[newIdx] = oldToNew[p]
		} else {
			s.Parents[newIdx] = -1
			s.Roots = append(s.Roots, newIdx)
		}
		for _, c := range children[oldIdx] {
			s.Children[newIdx] = append(s.Children[newIdx], oldToNew[c])
		}

		var flags BoneFlags
		if b.HasTag(TagGaze) {
			flags |= FlagGaze
		}
		if p := s.Parents[newIdx]; p >= 0 && s.Flags[p]&FlagGaze != 0 {
			flags |= FlagGaze
		}
		if b.HasTag(TagHandle) {
			flags |= FlagHandle
		}
		if b.Hidden {
			flags |= FlagHidden
		}
		s.Flags[newIdx] = flags
	}

	return s
}

// Len returns the number of bones in the arena.
func (s *Skeleton) Len() int {
	return len(s.Bones)
}

// IndexOf returns the arena index of the bone with the given id.
//
// Parameters:
//   - id: the bone id
//
// Returns:
//   - int: the arena index
//   - bool: false if no bone has that id
func (s *Skeleton) IndexOf(id string) (int, bool) {
	idx, ok := s.indexByID[id]
	return idx, ok
}

// Bone returns the bone at arena index i.
func (s *Skeleton) Bone(i int) (Bone, bool) {
	if i < 0 || i >= len(s.Bones) {
		return Bone{}, false
	}
	return s.Bones[i], true
}

// Has reports whether bone i carries every flag in f.
func (s *Skeleton) Has(i int, f BoneFlags) bool {
	return s.Flags[i]&f == f
}

// Displayed reports whether bone i should be pushed to a display sink.
func (s *Skeleton) Displayed(i int) bool {
	return s.Flags[i]&(FlagHidden|FlagHandle) == 0
}

func removeIndex(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
