package selection

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/curatorlabs/curator/internal/inventory"
)

func TestToggleSelectAndDeselect(t *testing.T) {
	s := New(nil, nil)

	s2 := s.Toggle("photos/2024")
	if s2 == s {
		t.Fatal("Toggle should return a new state on change")
	}
	if !s2.IsSelected("photos/2024") {
		t.Error("photos/2024 should be selected")
	}
	if s.IsSelected("photos/2024") {
		t.Error("original state must not be mutated")
	}

	s3 := s2.Toggle("photos/2024")
	if s3.IsSelected("photos/2024") {
		t.Error("second toggle should deselect")
	}
	if s3.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s3.Len())
	}
}

func TestToggleReplacesSelectedAncestor(t *testing.T) {
	s := New(nil, nil).Toggle("a/b")
	s = s.Toggle("a/b/c")

	if got := s.Selected(); !reflect.DeepEqual(got, []string{"a/b/c"}) {
		t.Errorf("Selected() = %v, want [a/b/c]", got)
	}
}

func TestToggleReplacesSelectedDescendants(t *testing.T) {
	s := New(nil, nil).Toggle("a/b/c")
	s = s.Toggle("a/x/y")
	s = s.Toggle("a")

	if got := s.Selected(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Selected() = %v, want [a]", got)
	}
}

func TestToggleSiblingsCoexist(t *testing.T) {
	s := New(nil, nil).Toggle("a/b")
	s = s.Toggle("a/c")

	if got := s.Selected(); !reflect.DeepEqual(got, []string{"a/b", "a/c"}) {
		t.Errorf("Selected() = %v, want [a/b a/c]", got)
	}
}

func TestToggleMappedIsNoOp(t *testing.T) {
	s := New([]string{"a/b"}, nil)

	s2 := s.Toggle("a/b")
	if s2 != s {
		t.Error("toggling a mapped path should return the identical state")
	}
	if s2.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s2.Len())
	}
}

func TestNewWithInitialSelection(t *testing.T) {
	s := New([]string{"m"}, []string{"a/b", "m", "a"})

	// "m" is mapped and dropped; "a" supersedes "a/b".
	if got := s.Selected(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Selected() = %v, want [a]", got)
	}
}

// TestInvariantUnderRandomToggles drives the engine with a long random toggle
// sequence and checks the hierarchy-exclusivity invariant after every step.
func TestInvariantUnderRandomToggles(t *testing.T) {
	paths := []string{
		"a", "a/b", "a/b/c", "a/b/d", "a/e",
		"b", "b/x", "b/x/y", "c", "c/deep/nested/path",
	}
	rng := rand.New(rand.NewSource(42))
	s := New([]string{"b/x"}, nil)

	for i := 0; i < 500; i++ {
		s = s.Toggle(paths[rng.Intn(len(paths))])

		selected := s.Selected()
		for _, p := range selected {
			if p == "b/x" {
				t.Fatalf("step %d: mapped path selected", i)
			}
			for _, q := range selected {
				if inventory.IsAncestorOf(p, q) {
					t.Fatalf("step %d: %q and %q both selected", i, p, q)
				}
			}
		}
	}
}
