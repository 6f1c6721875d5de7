package ecs

// store is the type-erased view of a sparseSet the World needs for
// bookkeeping (entity destruction, query planning).
type store interface {
	has(id entityID) bool
	remove(id entityID) bool
	size() int
	ids() []entityID
}

// sparseSet is a cache-friendly storage for one component type keyed by
// entity slot id. Values are stored by pointer so callers may mutate what Get
// returns in place.
type sparseSet[T any] struct {
	dense  []entityID
	values []*T
	sparse []int32 // dense index + 1, 0 means absent
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) has(id entityID) bool {
	if id == 0 || int(id) > len(s.sparse) {
		return false
	}
	return s.sparse[id-1] != 0
}

func (s *sparseSet[T]) get(id entityID) (*T, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]-1], true
}

func (s *sparseSet[T]) set(id entityID, v *T) {
	if id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, 0)
	}
	if slot := s.sparse[id-1]; slot != 0 {
		s.values[slot-1] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = int32(len(s.dense))
}

// remove swaps the last dense element into the removed slot.
func (s *sparseSet[T]) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1] - 1
	last := int32(len(s.dense) - 1)
	lastID := s.dense[last]

	s.dense[idx] = lastID
	s.values[idx] = s.values[last]
	s.sparse[lastID-1] = idx + 1

	s.values[last] = nil
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = 0
	return true
}

func (s *sparseSet[T]) size() int {
	return len(s.dense)
}

// ids returns a copy of the dense id list so callers can mutate the set
// while iterating.
func (s *sparseSet[T]) ids() []entityID {
	out := make([]entityID, len(s.dense))
	copy(out, s.dense)
	return out
}
