package dataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mercator/internal/space"
	"github.com/roach88/mercator/internal/store"
)

func TestLoad(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "cells.cue"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Universe", "brain"}, ds.Registry.Names())
	assert.Equal(t, "Universe", ds.Registry.Universe().Name)
	assert.Equal(t, 2, ds.Registry.Universe().Dimensions())

	brain, err := ds.Registry.Space("brain")
	require.NoError(t, err)
	key, err := brain.Encode(space.Position{-50, 0})
	require.NoError(t, err)
	assert.Equal(t, space.Position{50, 100}, key)

	require.Len(t, ds.Objects, 3)
	n1 := ds.Objects[0]
	assert.Equal(t, "Universe", n1.Space)
	assert.Equal(t, "neuron", n1.Properties.Type)
	assert.Equal(t, space.Position{1, 2}, n1.Position)
	assert.Contains(t, n1.Properties.Attributes, "layer")
	assert.Equal(t, "brain", ds.Objects[2].Space)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dataset")
}

func TestParseDefaults(t *testing.T) {
	ds, err := Parse(`objects: [{position: [1, 2, 3]}]`, "inline.cue")
	require.NoError(t, err)

	assert.Equal(t, space.DefaultUniverseName, ds.Registry.Universe().Name)
	assert.Equal(t, 3, ds.Registry.Universe().Dimensions())

	require.Len(t, ds.Objects, 1)
	o := ds.Objects[0]
	assert.Equal(t, space.DefaultUniverseName, o.Space)
	assert.Equal(t, "object", o.Properties.Type)
	assert.Equal(t, "Universe-0", o.Properties.ID, "missing ids derive from space and index")
}

func TestParseGeneratedIDsAreStable(t *testing.T) {
	const src = `
spaces: {
	Universe: {low: [0], high: [10]}
	line: {low: [0], high: [5]}
}
objects: [{position: [1]}, {id: "named", position: [2]}, {space: "line", position: [3]}]
`
	first, err := Parse(src, "inline.cue")
	require.NoError(t, err)
	second, err := Parse(src, "inline.cue")
	require.NoError(t, err)

	var ids []string
	for _, o := range first.Objects {
		ids = append(ids, o.Properties.ID)
	}
	assert.Equal(t, []string{"Universe-0", "named", "line-2"}, ids)
	assert.Equal(t, first.Objects, second.Objects)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `objects: [`, "inline.cue"},
		{"schema type", `objects: [{position: ["x"]}]`, "conflicting values"},
		{"unknown field", `objects: [{position: [1], colour: "red"}]`, "colour"},
		{"empty position", `objects: [{position: []}]`, "position has 0"},
		{"unknown space", `objects: [{space: "nowhere", position: [1, 2, 3]}]`, "unknown reference space"},
		{"wrong dimensions", `objects: [{position: [1, 2]}]`, "has 3 dimensions, position has 2"},
		{"undeclared universe", `universe: "world"`, `universe "world" is not declared`},
		{"inverted bounds", `spaces: {Universe: {low: [1], high: [0]}}`, "low bound exceeds high bound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "inline.cue")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDatasetMemory(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "cells.cue"))
	require.NoError(t, err)

	m, err := ds.Memory()
	require.NoError(t, err)

	got, err := m.GetByLabel(context.Background(), "brain", "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestDatasetInto(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "cells.cue"))
	require.NoError(t, err)

	db, err := store.Open(filepath.Join(t.TempDir(), "cells.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, ds.Into(context.Background(), db))

	assert.Equal(t, []string{"Universe", "brain"}, db.Names())
	got, err := db.GetByShape(context.Background(), "Universe",
		store.BoxQuery{Low: space.Position{0, 0}, High: space.Position{5, 5}})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}
