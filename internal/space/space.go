package space

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// DefaultUniverseName is the universe space name when none is configured.
const DefaultUniverseName = "Universe"

// ErrUnknownSpace is returned when a space name is not registered.
var ErrUnknownSpace = errors.New("unknown reference space")

// Position is a decoded point in a space.
type Position []float64

// Key renders the position as a stable map key.
func (p Position) Key() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Equal reports exact coordinate equality.
func (p Position) Equal(other Position) bool {
	return floats.Equal(p, other)
}

// Encoder maps positions between a space's coordinates and the key domain
// used by storage indexes.
type Encoder interface {
	Encode(p Position) Position
	Decode(p Position) Position
}

// Identity leaves positions unchanged.
type Identity struct{}

func (Identity) Encode(p Position) Position { return append(Position(nil), p...) }
func (Identity) Decode(p Position) Position { return append(Position(nil), p...) }

// LinearEncoder applies key = (value - Offset) * Scale per axis. Missing
// offsets default to 0, missing scales to 1.
type LinearEncoder struct {
	Offset []float64
	Scale  []float64
}

func (e LinearEncoder) axis(i int) (offset, scale float64) {
	offset, scale = 0, 1
	if i < len(e.Offset) {
		offset = e.Offset[i]
	}
	if i < len(e.Scale) && e.Scale[i] != 0 {
		scale = e.Scale[i]
	}
	return offset, scale
}

func (e LinearEncoder) Encode(p Position) Position {
	out := make(Position, len(p))
	for i, v := range p {
		offset, scale := e.axis(i)
		out[i] = (v - offset) * scale
	}
	return out
}

func (e LinearEncoder) Decode(p Position) Position {
	out := make(Position, len(p))
	for i, v := range p {
		offset, scale := e.axis(i)
		out[i] = v/scale + offset
	}
	return out
}

// Space is a named reference space.
type Space struct {
	Name    string
	Low     Position
	High    Position
	Encoder Encoder
}

// New builds a space from its bounding corners. enc may be nil for identity.
func New(name string, low, high Position, enc Encoder) (*Space, error) {
	if name == "" {
		return nil, errors.New("space name is required")
	}
	if len(low) == 0 || len(low) != len(high) {
		return nil, fmt.Errorf("space %q: bounds must have the same non-zero dimension (got %d and %d)", name, len(low), len(high))
	}
	for i := range low {
		if low[i] > high[i] {
			return nil, fmt.Errorf("space %q: low bound exceeds high bound on axis %d", name, i)
		}
	}
	if enc == nil {
		enc = Identity{}
	}
	return &Space{Name: name, Low: low, High: high, Encoder: enc}, nil
}

// Dimensions returns the number of axes.
func (s *Space) Dimensions() int {
	return len(s.Low)
}

// BoundingBox returns copies of the low and high corners.
func (s *Space) BoundingBox() (low, high Position) {
	return append(Position(nil), s.Low...), append(Position(nil), s.High...)
}

// Volume is the product of the per-axis extents.
func (s *Space) Volume() float64 {
	extents := make([]float64, len(s.Low))
	floats.SubTo(extents, s.High, s.Low)
	return floats.Prod(extents)
}

// Contains reports whether p lies within the bounding box, bounds included.
func (s *Space) Contains(p Position) bool {
	if len(p) != s.Dimensions() {
		return false
	}
	for i, v := range p {
		if v < s.Low[i] || v > s.High[i] {
			return false
		}
	}
	return true
}

// Encode converts p into the key domain.
func (s *Space) Encode(p Position) (Position, error) {
	if len(p) != s.Dimensions() {
		return nil, fmt.Errorf("space %q has %d dimensions, position has %d", s.Name, s.Dimensions(), len(p))
	}
	return s.Encoder.Encode(p), nil
}

// Decode converts a key-domain position back into space coordinates.
func (s *Space) Decode(p Position) (Position, error) {
	if len(p) != s.Dimensions() {
		return nil, fmt.Errorf("space %q has %d dimensions, position has %d", s.Name, s.Dimensions(), len(p))
	}
	return s.Encoder.Decode(p), nil
}

// Catalog resolves reference spaces by name.
type Catalog interface {
	// Space returns the named space or an error wrapping ErrUnknownSpace.
	Space(name string) (*Space, error)

	// Universe returns the universe space.
	Universe() *Space
}

// Registry is a concurrency-safe in-memory Catalog.
type Registry struct {
	mu       sync.RWMutex
	spaces   map[string]*Space
	universe string
}

// NewRegistry returns a registry whose universe is u. u is registered.
func NewRegistry(u *Space) *Registry {
	r := &Registry{spaces: map[string]*Space{}, universe: u.Name}
	r.spaces[u.Name] = u
	return r
}

// DefaultUniverse returns the 3-D universe spanning the full unsigned 32-bit
// key range on every axis.
func DefaultUniverse() *Space {
	return &Space{
		Name:    DefaultUniverseName,
		Low:     Position{0, 0, 0},
		High:    Position{math.MaxUint32, math.MaxUint32, math.MaxUint32},
		Encoder: Identity{},
	}
}

// Register adds or replaces a space. Registering a space under the universe
// name replaces the universe.
func (r *Registry) Register(s *Space) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spaces[s.Name] = s
}

// SetUniverse registers s and makes it the universe.
func (r *Registry) SetUniverse(s *Space) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spaces[s.Name] = s
	r.universe = s.Name
}

// Space implements Catalog.
func (r *Registry) Space(name string) (*Space, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.spaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpace, name)
	}
	return s, nil
}

// Universe implements Catalog.
func (r *Registry) Universe() *Space {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.spaces[r.universe]
}

// Names returns the registered space names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.spaces))
	for name := range r.spaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
