package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mercator/internal/engine"
)

// Scenario defines a query conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is inline CUE dataset source.
	Dataset string `yaml:"dataset,omitempty"`

	// DatasetFile is a path to a CUE dataset, relative to the scenario file.
	DatasetFile string `yaml:"dataset_file,omitempty"`

	// Query is the AST document of the query.
	Query yaml.Node `yaml:"query"`

	// ViewPort clips the results, as "low;high" raw positions.
	ViewPort string `yaml:"viewport,omitempty"`

	// Epsilon overrides the boundary nudge when set. Zero disables it.
	Epsilon *float64 `yaml:"epsilon,omitempty"`

	// Expect describes the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect lists the expected properties of a query turn. Unset fields are not
// checked.
type Expect struct {
	Valid     *bool          `yaml:"valid,omitempty"`
	Type      string         `yaml:"type,omitempty"`
	Error     string         `yaml:"error,omitempty"`
	ErrorKind string         `yaml:"error_kind,omitempty"`
	Predicted *float64       `yaml:"predicted,omitempty"`
	Count     *int           `yaml:"count,omitempty"`
	PerSpace  map[string]int `yaml:"per_space,omitempty"`
	IDs       []string       `yaml:"ids,omitempty"`
	Positions [][]float64    `yaml:"positions,omitempty"`
}

// Error kind names accepted by Expect.ErrorKind.
const (
	KindValidation = "validation"
	KindPrediction = "prediction"
	KindExecution  = "execution"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// DatasetFile is resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.DatasetFile != "" && !filepath.IsAbs(scenario.DatasetFile) {
		scenario.DatasetFile = filepath.Join(filepath.Dir(path), scenario.DatasetFile)
	}
	if scenario.DatasetFile != "" {
		if _, err := os.Stat(scenario.DatasetFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: dataset file not found: %s", scenario.DatasetFile)
		}
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml scenario of dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Dataset != "" && s.DatasetFile != "" {
		return fmt.Errorf("dataset and dataset_file are mutually exclusive")
	}

	if s.Query.Kind == 0 {
		return fmt.Errorf("query is required")
	}

	if _, err := engine.ParseViewPort(s.ViewPort); err != nil {
		return err
	}

	if s.Epsilon != nil && *s.Epsilon < 0 {
		return fmt.Errorf("epsilon must be non-negative")
	}

	return validateExpect(&s.Expect)
}

func validateExpect(e *Expect) error {
	switch e.ErrorKind {
	case "", KindValidation, KindPrediction, KindExecution:
	default:
		return fmt.Errorf("expect.error_kind: unknown kind %q", e.ErrorKind)
	}

	failing := e.Error != "" || e.ErrorKind != ""
	if failing && (e.Count != nil || e.PerSpace != nil || e.IDs != nil || e.Positions != nil) {
		return fmt.Errorf("expect: result expectations cannot be combined with an error")
	}

	if e.Count != nil && *e.Count < 0 {
		return fmt.Errorf("expect.count must be non-negative")
	}

	if e.Valid != nil && !*e.Valid && (e.Type != "" || e.Predicted != nil) {
		return fmt.Errorf("expect: an invalid query has no type or prediction")
	}
	return nil
}
