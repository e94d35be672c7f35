package store

import (
	"encoding/json"
	"strings"

	"github.com/roach88/mercator/internal/space"
)

// Properties is the payload attached to a spatial object.
type Properties struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Object is one stored spatial object: a raw position in a space plus its
// properties.
type Object struct {
	Space      string         `json:"space"`
	Position   space.Position `json:"position"`
	Properties Properties     `json:"properties"`
}

// Key returns the full identity of the object: space, position and every
// property. Two objects with equal keys are duplicates.
func (o Object) Key() string {
	var b strings.Builder
	b.WriteString(o.Space)
	b.WriteByte(0)
	b.WriteString(o.Position.Key())
	b.WriteByte(0)
	b.WriteString(o.Properties.ID)
	b.WriteByte(0)
	b.WriteString(o.Properties.Type)
	if len(o.Properties.Attributes) > 0 {
		// Map keys are marshaled in sorted order.
		attrs, err := json.Marshal(o.Properties.Attributes)
		if err == nil {
			b.WriteByte(0)
			b.Write(attrs)
		}
	}
	return b.String()
}

// Group is the objects of one space.
type Group struct {
	Space   string   `json:"space"`
	Objects []Object `json:"objects"`
}

// ResultSet is an ordered list of per-space groups. A space may appear in
// several groups; Objects concatenates them.
type ResultSet []Group

// Single wraps objects of one space, returning an empty set when there are
// none.
func Single(spaceID string, objects []Object) ResultSet {
	if len(objects) == 0 {
		return ResultSet{}
	}
	return ResultSet{{Space: spaceID, Objects: objects}}
}

// Len returns the total number of objects.
func (r ResultSet) Len() int {
	n := 0
	for _, g := range r {
		n += len(g.Objects)
	}
	return n
}

// Spaces returns the distinct space identifiers in order of first
// appearance.
func (r ResultSet) Spaces() []string {
	seen := make(map[string]bool, len(r))
	var out []string
	for _, g := range r {
		if !seen[g.Space] {
			seen[g.Space] = true
			out = append(out, g.Space)
		}
	}
	return out
}

// Objects returns every object of spaceID, across groups.
func (r ResultSet) Objects(spaceID string) []Object {
	var out []Object
	for _, g := range r {
		if g.Space == spaceID {
			out = append(out, g.Objects...)
		}
	}
	return out
}

// Counts returns the number of objects per space.
func (r ResultSet) Counts() map[string]int {
	counts := make(map[string]int, len(r))
	for _, g := range r {
		counts[g.Space] += len(g.Objects)
	}
	return counts
}
