package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/dataset"
	"github.com/roach88/mercator/internal/engine"
	"github.com/roach88/mercator/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expectation held.
	Pass bool

	QueryID string

	// Query is the decoded query in query-language syntax.
	Query string

	// Type is the validated type; empty when validation failed.
	Type string

	Predicted float64

	// PredictionErr is the prediction failure message, if any.
	PredictionErr string

	// Err is the query turn error, if any.
	Err error

	// ErrorKind names the phase Err comes from.
	ErrorKind string

	Results store.ResultSet

	// Errors lists the failed expectations. Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a scenario and checks its expectations.
//
// Each scenario runs in a fresh in-memory SQLite store with a fixed query
// id. Query turn failures are part of the result; the returned error is
// reserved for scenarios that cannot run at all (bad dataset, malformed
// query document).
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	ds, err := loadDataset(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := ds.Into(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	query, err := ast.NewDecoder(st.Universe().Name).QueryNode(&scenario.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to decode query: %w", err)
	}

	params := engine.DefaultParameters()
	if params.ViewPort, err = engine.ParseViewPort(scenario.ViewPort); err != nil {
		return nil, err
	}
	if scenario.Epsilon != nil {
		params.Epsilon = *scenario.Epsilon
	}

	eng := engine.New(st,
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithIDGenerator(engine.NewFixedGenerator("scenario-"+scenario.Name)),
	)
	report, runErr := eng.Run(ctx, query, params)

	result := NewResult()
	result.QueryID = report.QueryID
	result.Query = ast.Format(query)
	if runErr == nil || !engine.IsValidationError(runErr) {
		result.Type = report.Type.String()
	}
	result.Predicted = report.Predicted
	if report.PredictionErr != nil {
		result.PredictionErr = report.PredictionErr.Error()
	}
	result.Err = runErr
	result.ErrorKind = errorKind(runErr)
	result.Results = report.Results

	for _, e := range CheckExpectations(scenario.Expect, result) {
		result.AddError(e.Error())
	}
	return result, nil
}

func loadDataset(s *Scenario) (*dataset.Dataset, error) {
	if s.DatasetFile != "" {
		return dataset.Load(s.DatasetFile)
	}
	return dataset.Parse(s.Dataset, s.Name+".cue")
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case engine.IsValidationError(err):
		return KindValidation
	case engine.IsPredictionError(err):
		return KindPrediction
	case engine.IsExecutionError(err):
		return KindExecution
	default:
		return "unknown"
	}
}
