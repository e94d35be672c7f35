package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the observable outcome of a scenario for golden
// comparison.
type Snapshot struct {
	Scenario  string          `json:"scenario"`
	QueryID   string          `json:"query_id"`
	Query     string          `json:"query"`
	Type      string          `json:"type,omitempty"`
	Predicted float64         `json:"predicted"`
	Error     string          `json:"error,omitempty"`
	Groups    []SnapshotGroup `json:"groups"`
}

// SnapshotGroup is one space group of a result.
type SnapshotGroup struct {
	Space   string           `json:"space"`
	Objects []SnapshotObject `json:"objects"`
}

// SnapshotObject is one result object.
type SnapshotObject struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Position   []float64      `json:"position"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, r *Result) Snapshot {
	s := Snapshot{
		Scenario:  name,
		QueryID:   r.QueryID,
		Query:     r.Query,
		Type:      r.Type,
		Predicted: r.Predicted,
		Groups:    []SnapshotGroup{},
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	for _, g := range r.Results {
		group := SnapshotGroup{Space: g.Space, Objects: []SnapshotObject{}}
		for _, o := range g.Objects {
			group.Objects = append(group.Objects, SnapshotObject{
				ID:         o.Properties.ID,
				Type:       o.Properties.Type,
				Position:   o.Position,
				Attributes: o.Properties.Attributes,
			})
		}
		s.Groups = append(s.Groups, group)
	}
	return s
}

// Marshal renders the snapshot as indented JSON. Map keys are sorted, so
// the output is deterministic.
func (s Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot run. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden
// file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(name, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
