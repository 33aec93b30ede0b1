// Package selection implements the toggle set used for multi-select on the
// catalog and image-review screens.
package selection

import "slices"

// Set is a set of identifiers that remembers the order members were added.
// The zero value is an empty set ready to use. A Set is not safe for
// concurrent use; the UI owns it.
type Set struct {
	order   []string
	members map[string]struct{}
}

// New returns a set holding ids, skipping duplicates.
func New(ids ...string) *Set {
	s := &Set{}
	for _, id := range ids {
		if !s.Contains(id) {
			s.add(id)
		}
	}
	return s
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *Set) Toggle(id string) bool {
	if s.Contains(id) {
		s.remove(id)
		return false
	}
	s.add(id)
	return true
}

// Contains reports whether id is selected.
func (s *Set) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Set) Len() int { return len(s.order) }

// Empty reports whether nothing is selected.
func (s *Set) Empty() bool { return len(s.order) == 0 }

// IDs returns the selected ids in the order they were selected.
func (s *Set) IDs() []string {
	return slices.Clone(s.order)
}

// Clear empties the set.
func (s *Set) Clear() {
	s.order = nil
	s.members = nil
}

// Prune drops every member for which keep returns false and returns how many
// were removed.
func (s *Set) Prune(keep func(id string) bool) int {
	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		if keep(id) {
			kept = append(kept, id)
			continue
		}
		delete(s.members, id)
		removed++
	}
	s.order = kept
	return removed
}

func (s *Set) add(id string) {
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Set) remove(id string) {
	delete(s.members, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}
