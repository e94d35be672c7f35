package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/mercator/internal/space"
)

// testRegistry returns a registry with a 2-D universe [0,0]-[10,10] and a
// 2-D "brain" space [-100,-100]-[100,100] encoded with offset -100.
func testRegistry(t *testing.T) *space.Registry {
	t.Helper()
	universe, err := space.New(space.DefaultUniverseName, space.Position{0, 0}, space.Position{10, 10}, nil)
	if err != nil {
		t.Fatalf("universe: %v", err)
	}
	brain, err := space.New("brain", space.Position{-100, -100}, space.Position{100, 100},
		space.LinearEncoder{Offset: []float64{-100, -100}})
	if err != nil {
		t.Fatalf("brain: %v", err)
	}
	reg := space.NewRegistry(universe)
	reg.Register(brain)
	return reg
}

// testObjects returns a small fixture spread over both test spaces.
func testObjects() []Object {
	return []Object{
		obj("a", "Universe", 0, 0),
		obj("b", "Universe", 1, 1),
		obj("c", "Universe", 5, 5),
		obj("d", "brain", -50, 0),
		obj("e", "brain", 0, 0),
	}
}

func obj(id, spaceID string, coords ...float64) Object {
	return Object{
		Space:      spaceID,
		Position:   space.Position(coords),
		Properties: Properties{ID: id, Type: "cell"},
	}
}

func ids(r ResultSet) []string {
	var out []string
	for _, g := range r {
		for _, o := range g.Objects {
			out = append(out, o.Properties.ID)
		}
	}
	return out
}

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
