package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/mercator/internal/space"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on coordinates(axis, value) for range scans
const currentSchemaVersion = 1

// SQLite is a persistent spatial store.
// Uses SQLite with WAL mode for concurrent read access.
//
// Spaces are read into a Registry when the store is opened and kept in sync
// by PutSpace, so catalog lookups never touch the database.
type SQLite struct {
	*space.Registry

	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically, then loads the
// stored spaces. Without a stored universe the default universe is used.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &SQLite{db: db, Registry: space.NewRegistry(space.DefaultUniverse())}
	if err := s.loadSpaces(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load spaces: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using SQLite methods when available.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the range-scan index on coordinates.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_coordinates_axis_value
		ON coordinates(axis, value)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLite) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

type spaceRow struct {
	name       string
	low, high  string
	offset     string
	scale      string
	isUniverse bool
}

func (s *SQLite) loadSpaces() error {
	rows, err := s.db.Query(`
		SELECT name, low, high, encoder_offset, encoder_scale, is_universe
		FROM spaces
		ORDER BY name ASC
	`)
	if err != nil {
		return fmt.Errorf("query spaces: %w", err)
	}
	defer rows.Close()

	var loaded []spaceRow
	for rows.Next() {
		var r spaceRow
		if err := rows.Scan(&r.name, &r.low, &r.high, &r.offset, &r.scale, &r.isUniverse); err != nil {
			return fmt.Errorf("scan space: %w", err)
		}
		loaded = append(loaded, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate spaces: %w", err)
	}

	for _, r := range loaded {
		sp, err := r.decode()
		if err != nil {
			return err
		}
		if r.isUniverse {
			s.SetUniverse(sp)
		} else {
			s.Register(sp)
		}
	}
	return nil
}

func (r spaceRow) decode() (*space.Space, error) {
	var low, high space.Position
	var enc space.LinearEncoder
	for _, f := range []struct {
		raw string
		dst any
	}{
		{r.low, &low}, {r.high, &high}, {r.offset, &enc.Offset}, {r.scale, &enc.Scale},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("decode space %q: %w", r.name, err)
		}
	}

	var encoder space.Encoder = space.Identity{}
	if len(enc.Offset) > 0 || len(enc.Scale) > 0 {
		encoder = enc
	}
	return space.New(r.name, low, high, encoder)
}

// PutSpace stores sp, replacing any space with the same name, and registers
// it in the catalog. A universe space replaces the current universe.
func (s *SQLite) PutSpace(ctx context.Context, sp *space.Space, universe bool) error {
	if err := putSpace(ctx, s.db, sp, universe); err != nil {
		return err
	}
	if universe {
		s.SetUniverse(sp)
	} else {
		s.Register(sp)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putSpace(ctx context.Context, db execer, sp *space.Space, universe bool) error {
	offset, scale := []float64{}, []float64{}
	if enc, ok := sp.Encoder.(space.LinearEncoder); ok {
		offset, scale = enc.Offset, enc.Scale
	}

	args := []any{sp.Name, sp.Dimensions()}
	for _, v := range []any{sp.Low, sp.High, offset, scale} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode space %q: %w", sp.Name, err)
		}
		args = append(args, string(raw))
	}
	args = append(args, universe)

	if universe {
		if _, err := db.ExecContext(ctx, `UPDATE spaces SET is_universe = 0 WHERE is_universe = 1`); err != nil {
			return fmt.Errorf("clear universe flag: %w", err)
		}
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO spaces (name, dimensions, low, high, encoder_offset, encoder_scale, is_universe)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			dimensions = excluded.dimensions,
			low = excluded.low,
			high = excluded.high,
			encoder_offset = excluded.encoder_offset,
			encoder_scale = excluded.encoder_scale,
			is_universe = excluded.is_universe
	`, args...)
	if err != nil {
		return fmt.Errorf("insert space %q: %w", sp.Name, err)
	}
	return nil
}

// PutObject stores one object. Its space must already be stored.
func (s *SQLite) PutObject(ctx context.Context, o Object) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.putObject(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit()
}

// Load stores every space of reg (flagging its universe) and every object in
// a single transaction.
func (s *SQLite) Load(ctx context.Context, reg *space.Registry, objects []Object) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	universe := reg.Universe()
	var spaces []*space.Space
	for _, name := range reg.Names() {
		sp, err := reg.Space(name)
		if err != nil {
			return err
		}
		if err := putSpace(ctx, tx, sp, sp == universe); err != nil {
			return err
		}
		spaces = append(spaces, sp)
	}

	// Registered before inserting objects, which are encoded with them.
	for _, sp := range spaces {
		if sp == universe {
			s.SetUniverse(sp)
		} else {
			s.Register(sp)
		}
	}

	for _, o := range objects {
		if err := s.putObject(ctx, tx, o); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) putObject(ctx context.Context, tx *sql.Tx, o Object) error {
	sp, err := s.Space(o.Space)
	if err != nil {
		return fmt.Errorf("insert %q: %w", o.Properties.ID, err)
	}
	key, err := sp.Encode(o.Position)
	if err != nil {
		return fmt.Errorf("insert %q: %w", o.Properties.ID, err)
	}

	position, err := json.Marshal(o.Position)
	if err != nil {
		return fmt.Errorf("encode position of %q: %w", o.Properties.ID, err)
	}
	attributes := []byte("{}")
	if len(o.Properties.Attributes) > 0 {
		if attributes, err = json.Marshal(o.Properties.Attributes); err != nil {
			return fmt.Errorf("encode attributes of %q: %w", o.Properties.ID, err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO objects (object_id, space, type, position, attributes)
		VALUES (?, ?, ?, ?, ?)
	`, o.Properties.ID, o.Space, o.Properties.Type, string(position), string(attributes))
	if err != nil {
		return fmt.Errorf("insert object %q: %w", o.Properties.ID, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert object %q: %w", o.Properties.ID, err)
	}

	for axis, v := range key {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO coordinates (seq, axis, value) VALUES (?, ?, ?)
		`, seq, axis, v); err != nil {
			return fmt.Errorf("insert coordinate %d of %q: %w", axis, o.Properties.ID, err)
		}
	}
	return nil
}

// GetByShape returns the objects of spaceID whose encoded position is in
// shape. The database narrows candidates to the shape's bounding box; the
// exact test runs on the decoded rows.
func (s *SQLite) GetByShape(ctx context.Context, spaceID string, shape Shape) (ResultSet, error) {
	sp, err := s.Space(spaceID)
	if err != nil {
		return nil, err
	}
	low, high := shape.Bounds()
	if len(low) != sp.Dimensions() || len(high) != sp.Dimensions() {
		return nil, fmt.Errorf("space %q has %d dimensions, query shape has %d", spaceID, sp.Dimensions(), len(low))
	}

	var clauses []string
	args := []any{spaceID}
	for axis := range low {
		clauses = append(clauses, "(c.axis = ? AND c.value BETWEEN ? AND ?)")
		args = append(args, axis, low[axis], high[axis])
	}
	args = append(args, sp.Dimensions())

	query := `
		SELECT o.object_id, o.type, o.position, o.attributes
		FROM objects o
		WHERE o.space = ? AND o.seq IN (
			SELECT c.seq FROM coordinates c
			WHERE ` + strings.Join(clauses, " OR ") + `
			GROUP BY c.seq
			HAVING COUNT(*) = ?
		)
		ORDER BY o.seq ASC
	`
	objects, err := s.queryObjects(ctx, spaceID, query, args...)
	if err != nil {
		return nil, err
	}

	out := objects[:0]
	for _, o := range objects {
		key, err := sp.Encode(o.Position)
		if err != nil {
			return nil, err
		}
		if shape.Contains(key) {
			out = append(out, o)
		}
	}
	return Single(spaceID, out), nil
}

// GetByPositions returns the objects of spaceID located at one of positions.
func (s *SQLite) GetByPositions(ctx context.Context, spaceID string, positions []space.Position) (ResultSet, error) {
	if _, err := s.Space(spaceID); err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return ResultSet{}, nil
	}

	args := []any{spaceID}
	marks := make([]string, len(positions))
	for i, p := range positions {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode position: %w", err)
		}
		marks[i] = "?"
		args = append(args, string(raw))
	}

	objects, err := s.queryObjects(ctx, spaceID, `
		SELECT object_id, type, position, attributes
		FROM objects
		WHERE space = ? AND position IN (`+strings.Join(marks, ", ")+`)
		ORDER BY seq ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	return Single(spaceID, objects), nil
}

// GetByLabel returns the objects of spaceID whose identifier is label.
func (s *SQLite) GetByLabel(ctx context.Context, spaceID, label string) (ResultSet, error) {
	if _, err := s.Space(spaceID); err != nil {
		return nil, err
	}
	objects, err := s.queryObjects(ctx, spaceID, `
		SELECT object_id, type, position, attributes
		FROM objects
		WHERE space = ? AND object_id = ?
		ORDER BY seq ASC
	`, spaceID, label)
	if err != nil {
		return nil, err
	}
	return Single(spaceID, objects), nil
}

func (s *SQLite) queryObjects(ctx context.Context, spaceID, query string, args ...any) ([]Object, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	var out []Object
	for rows.Next() {
		var position, attributes string
		o := Object{Space: spaceID}
		if err := rows.Scan(&o.Properties.ID, &o.Properties.Type, &position, &attributes); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		if err := json.Unmarshal([]byte(position), &o.Position); err != nil {
			return nil, fmt.Errorf("decode position of %q: %w", o.Properties.ID, err)
		}
		if err := json.Unmarshal([]byte(attributes), &o.Properties.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes of %q: %w", o.Properties.ID, err)
		}
		if len(o.Properties.Attributes) == 0 {
			o.Properties.Attributes = nil
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objects: %w", err)
	}
	return out, nil
}
