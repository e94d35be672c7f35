package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/mercator/internal/space"
)

// Memory is an in-process store. It scans every object of the requested
// space on each lookup.
type Memory struct {
	*space.Registry

	mu      sync.RWMutex
	objects []Object
}

// NewMemory returns an empty store resolving spaces through reg.
func NewMemory(reg *space.Registry) *Memory {
	return &Memory{Registry: reg}
}

// Insert adds objects. Each object's space must be registered and its
// position must match the space's dimensions.
func (m *Memory) Insert(objects ...Object) error {
	for _, o := range objects {
		s, err := m.Space(o.Space)
		if err != nil {
			return fmt.Errorf("insert %q: %w", o.Properties.ID, err)
		}
		if len(o.Position) != s.Dimensions() {
			return fmt.Errorf("insert %q: space %q has %d dimensions, position has %d",
				o.Properties.ID, s.Name, s.Dimensions(), len(o.Position))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = append(m.objects, objects...)
	return nil
}

// GetByShape returns the objects of spaceID whose encoded position is in
// shape.
func (m *Memory) GetByShape(ctx context.Context, spaceID string, shape Shape) (ResultSet, error) {
	s, err := m.Space(spaceID)
	if err != nil {
		return nil, err
	}
	return m.scan(ctx, spaceID, func(o Object) (bool, error) {
		key, err := s.Encode(o.Position)
		if err != nil {
			return false, err
		}
		return shape.Contains(key), nil
	})
}

// GetByPositions returns the objects of spaceID located at one of positions.
func (m *Memory) GetByPositions(ctx context.Context, spaceID string, positions []space.Position) (ResultSet, error) {
	if _, err := m.Space(spaceID); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(positions))
	for _, p := range positions {
		wanted[p.Key()] = true
	}
	return m.scan(ctx, spaceID, func(o Object) (bool, error) {
		return wanted[o.Position.Key()], nil
	})
}

// GetByLabel returns the objects of spaceID whose identifier is label.
func (m *Memory) GetByLabel(ctx context.Context, spaceID, label string) (ResultSet, error) {
	if _, err := m.Space(spaceID); err != nil {
		return nil, err
	}
	return m.scan(ctx, spaceID, func(o Object) (bool, error) {
		return o.Properties.ID == label, nil
	})
}

func (m *Memory) scan(ctx context.Context, spaceID string, match func(Object) (bool, error)) (ResultSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Object
	for _, o := range m.objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if o.Space != spaceID {
			continue
		}
		ok, err := match(o)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, o)
		}
	}
	return Single(spaceID, out), nil
}
