package seenset

import "slices"

// Set is an ordered collection of posting ids with unique membership. The
// order is the order ids were first added.
type Set struct {
	ids   []string
	index map[string]struct{}
}

// New creates a set holding ids. Duplicates are dropped, keeping the first
// occurrence.
func New(ids ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add appends id if it is not already present and reports whether it was
// added.
func (s *Set) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// IDs returns a copy of the ids in insertion order.
func (s *Set) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of ids.
func (s *Set) Len() int {
	return len(s.ids)
}
