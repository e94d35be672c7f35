// Package store holds spatial objects and answers the lookups the query
// engine needs.
//
// Two implementations share the same contract:
//   - Memory: a linear scan over an in-process slice, used by tests and the
//     CLI when no database is configured
//   - SQLite: a persistent store with one row per object and one row per
//     object axis, so box lookups become per-axis range scans
//
// # Lookups
//
//   - GetByShape: objects whose encoded position falls inside an encoded
//     PointQuery, BoxQuery or SphereQuery; bounds are inclusive
//   - GetByPositions: objects whose raw position equals one of the given
//     positions
//   - GetByLabel: objects whose identifier equals the label
//
// Every lookup is scoped to one space and returns a ResultSet with at most
// one group. Unknown spaces are errors wrapping space.ErrUnknownSpace.
//
// # Positions
//
// Objects keep their raw position (the coordinates of their space). Shape
// lookups compare encoded positions, computed with the space's Encoder, so
// callers encode query shapes before calling GetByShape.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
