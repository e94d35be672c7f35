package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/mercator/internal/space"
	"github.com/roach88/mercator/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// Dataset is a decoded dataset: its space catalog and objects.
type Dataset struct {
	Registry *space.Registry
	Objects  []store.Object
}

// Error is a dataset loading error, positioned when CUE reports one.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

type document struct {
	Universe string                `json:"universe"`
	Spaces   map[string]spaceEntry `json:"spaces"`
	Objects  []objectEntry         `json:"objects"`
}

type spaceEntry struct {
	Low    []float64 `json:"low"`
	High   []float64 `json:"high"`
	Offset []float64 `json:"offset"`
	Scale  []float64 `json:"scale"`
}

type objectEntry struct {
	Space      string         `json:"space"`
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Position   []float64      `json:"position"`
	Attributes map[string]any `json:"attributes"`
}

// Load reads and parses the dataset file at path.
func Load(path string) (*Dataset, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(string(src), path)
}

// Parse parses dataset source. filename is used in error positions.
func Parse(src, filename string) (*Dataset, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile dataset schema: %w", err)
	}

	data := ctx.CompileString(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.LookupPath(cue.ParsePath("#Dataset")).Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc document
	if err := v.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return doc.build()
}

func (doc document) build() (*Dataset, error) {
	universe := space.DefaultUniverse()
	if entry, ok := doc.Spaces[doc.Universe]; ok {
		sp, err := entry.build(doc.Universe)
		if err != nil {
			return nil, &Error{Message: err.Error()}
		}
		universe = sp
	} else if doc.Universe != space.DefaultUniverseName {
		return nil, &Error{Message: fmt.Sprintf("universe %q is not declared in spaces", doc.Universe)}
	}

	reg := space.NewRegistry(universe)
	for name, entry := range doc.Spaces {
		if name == doc.Universe {
			continue
		}
		sp, err := entry.build(name)
		if err != nil {
			return nil, &Error{Message: err.Error()}
		}
		reg.Register(sp)
	}

	ds := &Dataset{Registry: reg, Objects: make([]store.Object, 0, len(doc.Objects))}
	for i, entry := range doc.Objects {
		o := store.Object{
			Space:    entry.Space,
			Position: space.Position(entry.Position),
			Properties: store.Properties{
				ID:         entry.ID,
				Type:       entry.Type,
				Attributes: entry.Attributes,
			},
		}
		if o.Space == "" {
			o.Space = universe.Name
		}
		if o.Properties.ID == "" {
			o.Properties.ID = fmt.Sprintf("%s-%d", o.Space, i)
		}
		sp, err := reg.Space(o.Space)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("objects[%d]: %v", i, err)}
		}
		if len(o.Position) != sp.Dimensions() {
			return nil, &Error{Message: fmt.Sprintf("objects[%d]: space %q has %d dimensions, position has %d",
				i, o.Space, sp.Dimensions(), len(o.Position))}
		}
		ds.Objects = append(ds.Objects, o)
	}
	return ds, nil
}

func (e spaceEntry) build(name string) (*space.Space, error) {
	var enc space.Encoder
	if len(e.Offset) > 0 || len(e.Scale) > 0 {
		enc = space.LinearEncoder{Offset: e.Offset, Scale: e.Scale}
	}
	return space.New(name, e.Low, e.High, enc)
}

// Memory returns a memory store holding the dataset.
func (ds *Dataset) Memory() (*store.Memory, error) {
	m := store.NewMemory(ds.Registry)
	if err := m.Insert(ds.Objects...); err != nil {
		return nil, err
	}
	return m, nil
}

// Into writes the dataset into a SQLite store in one transaction.
func (ds *Dataset) Into(ctx context.Context, db *store.SQLite) error {
	return db.Load(ctx, ds.Registry, ds.Objects)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	e := &Error{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
