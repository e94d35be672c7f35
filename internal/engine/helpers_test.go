package engine

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/space"
	"github.com/roach88/mercator/internal/store"
)

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRegistry holds a 2-D universe [0,0]-[10,10] and a 2-D "brain" space
// [-100,-100]-[100,100] encoded with offset -100.
func testRegistry(t *testing.T) *space.Registry {
	t.Helper()
	universe, err := space.New("Universe", space.Position{0, 0}, space.Position{10, 10}, nil)
	require.NoError(t, err)
	brain, err := space.New("brain", space.Position{-100, -100}, space.Position{100, 100},
		space.LinearEncoder{Offset: []float64{-100, -100}})
	require.NoError(t, err)

	reg := space.NewRegistry(universe)
	reg.Register(brain)
	return reg
}

// newTestStore returns a memory store over testRegistry.
func newTestStore(t *testing.T, objects ...store.Object) *store.Memory {
	t.Helper()
	m := store.NewMemory(testRegistry(t))
	require.NoError(t, m.Insert(objects...))
	return m
}

// newTestSQLite returns an in-memory SQLite store over testRegistry.
func newTestSQLite(t *testing.T, objects ...store.Object) *store.SQLite {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Load(context.Background(), testRegistry(t), objects))
	return db
}

// at builds a universe object.
func at(id string, coords ...float64) store.Object {
	return in("Universe", id, coords...)
}

func in(spaceID, id string, coords ...float64) store.Object {
	return store.Object{
		Space:      spaceID,
		Position:   space.Position(coords),
		Properties: store.Properties{ID: id, Type: "cell"},
	}
}

// ids lists object identifiers in result order.
func ids(r store.ResultSet) []string {
	var out []string
	for _, g := range r {
		for _, o := range g.Objects {
			out = append(out, o.Properties.ID)
		}
	}
	return out
}

func sortedIDs(r store.ResultSet) []string {
	out := ids(r)
	sort.Strings(out)
	return out
}

func bag(t *testing.T, src string) ast.Bag {
	t.Helper()
	b, err := ast.DecodeBag([]byte(src), "Universe")
	require.NoError(t, err)
	return b
}

func query(t *testing.T, src string) ast.Projection {
	t.Helper()
	p, err := ast.Decode([]byte(src), "Universe")
	require.NoError(t, err)
	return p
}
