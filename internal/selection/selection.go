// Package selection maintains the set of folder paths chosen for collection
// creation. The set is hierarchy-exclusive: no selected path may be an
// ancestor or descendant of another, and paths already mapped to a collection
// can never be selected.
package selection

import (
	"sort"

	"github.com/curatorlabs/curator/internal/inventory"
)

// State holds the selected and mapped path sets. State values are immutable:
// Toggle returns a new State, or the receiver itself when nothing changed, so
// callers can skip redundant downstream work with a pointer comparison.
type State struct {
	selected map[string]struct{}
	mapped   map[string]struct{}
}

// New creates a State with the given mapped paths and an optional initial
// selection (resume support). Initial paths are applied through Toggle, so a
// conflicting pair resolves in favor of the later path.
func New(mapped, initial []string) *State {
	s := &State{
		selected: make(map[string]struct{}),
		mapped:   make(map[string]struct{}, len(mapped)),
	}
	for _, p := range mapped {
		s.mapped[p] = struct{}{}
	}
	for _, p := range initial {
		s = s.Toggle(p)
	}

	return s
}

// Toggle flips the selection of path. Deselecting is always legal. Selecting
// a mapped path is a no-op. Selecting an unmapped path removes any selected
// ancestor or descendant first, so the hierarchy-exclusivity invariant holds
// after every call.
func (s *State) Toggle(path string) *State {
	if _, ok := s.selected[path]; ok {
		next := s.clone()
		delete(next.selected, path)

		return next
	}

	if _, ok := s.mapped[path]; ok {
		return s
	}

	next := s.clone()
	for p := range next.selected {
		if inventory.IsAncestorOf(p, path) || inventory.IsAncestorOf(path, p) {
			delete(next.selected, p)
		}
	}
	next.selected[path] = struct{}{}

	return next
}

// IsSelected reports whether path is currently selected.
func (s *State) IsSelected(path string) bool {
	_, ok := s.selected[path]
	return ok
}

// IsMapped reports whether path is already bound to a collection.
func (s *State) IsMapped(path string) bool {
	_, ok := s.mapped[path]
	return ok
}

// HasSelectedAncestor reports whether any selected path is an ancestor of path.
func (s *State) HasSelectedAncestor(path string) bool {
	for p := range s.selected {
		if inventory.IsAncestorOf(p, path) {
			return true
		}
	}

	return false
}

// HasSelectedDescendant reports whether any selected path lives below path.
func (s *State) HasSelectedDescendant(path string) bool {
	for p := range s.selected {
		if inventory.IsAncestorOf(path, p) {
			return true
		}
	}

	return false
}

// Selected returns the selected paths in lexicographic order.
func (s *State) Selected() []string {
	paths := make([]string, 0, len(s.selected))
	for p := range s.selected {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

// Len returns the number of selected paths.
func (s *State) Len() int {
	return len(s.selected)
}

// clone copies the selected set. The mapped set is immutable for the session
// and shared between clones.
func (s *State) clone() *State {
	next := &State{
		selected: make(map[string]struct{}, len(s.selected)),
		mapped:   s.mapped,
	}
	for p := range s.selected {
		next.selected[p] = struct{}{}
	}

	return next
}
