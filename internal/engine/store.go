package engine

import (
	"context"

	"github.com/roach88/mercator/internal/space"
	"github.com/roach88/mercator/internal/store"
)

// Store is the spatial store the engine queries.
//
// Implemented by store.Memory and store.SQLite. Lookups are scoped to one
// space; GetByShape takes a shape already encoded with the space's Encoder,
// GetByPositions takes raw positions.
type Store interface {
	space.Catalog

	GetByShape(ctx context.Context, spaceID string, shape store.Shape) (store.ResultSet, error)
	GetByPositions(ctx context.Context, spaceID string, positions []space.Position) (store.ResultSet, error)
	GetByLabel(ctx context.Context, spaceID, label string) (store.ResultSet, error)
}
