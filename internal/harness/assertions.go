package harness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/mercator/internal/store"
)

// ExpectationError is a failed expectation.
type ExpectationError struct {
	Field    string // Expectation key, e.g. "count"
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("expect.%s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// CheckExpectations compares a result against the expectations of a
// scenario and returns every mismatch.
func CheckExpectations(e Expect, r *Result) []*ExpectationError {
	var errs []*ExpectationError
	add := func(field, expected, actual string) {
		errs = append(errs, &ExpectationError{Field: field, Expected: expected, Actual: actual})
	}

	valid := r.ErrorKind != KindValidation
	if e.Valid != nil && *e.Valid != valid {
		add("valid", fmt.Sprint(*e.Valid), describe(valid, r.Err))
	}

	failing := e.Error != "" || e.ErrorKind != ""
	switch {
	case failing && r.Err == nil:
		add("error", expectedError(e), "success")
	case failing:
		if e.Error != "" && !strings.Contains(r.Err.Error(), e.Error) {
			add("error", fmt.Sprintf("%q", e.Error), fmt.Sprintf("%q", r.Err.Error()))
		}
		if e.ErrorKind != "" && e.ErrorKind != r.ErrorKind {
			add("error_kind", e.ErrorKind, r.ErrorKind)
		}
	case r.Err != nil && (e.Valid == nil || *e.Valid):
		add("error", "success", r.Err.Error())
	}

	if e.Type != "" && e.Type != r.Type {
		add("type", e.Type, r.Type)
	}

	if e.Predicted != nil && !closeTo(*e.Predicted, r.Predicted) {
		add("predicted", fmt.Sprint(*e.Predicted), fmt.Sprint(r.Predicted))
	}

	if r.Err != nil {
		return errs
	}

	if e.Count != nil && *e.Count != r.Results.Len() {
		add("count", fmt.Sprint(*e.Count), fmt.Sprint(r.Results.Len()))
	}

	if e.PerSpace != nil {
		if diff := cmp.Diff(e.PerSpace, r.Results.Counts(), cmpopts.EquateEmpty()); diff != "" {
			add("per_space", fmt.Sprint(e.PerSpace), fmt.Sprintf("%v (-want +got):\n%s", r.Results.Counts(), diff))
		}
	}

	if e.IDs != nil {
		got := resultIDs(r.Results)
		if diff := cmp.Diff(e.IDs, got, cmpopts.EquateEmpty()); diff != "" {
			add("ids", fmt.Sprint(e.IDs), fmt.Sprintf("%v (-want +got):\n%s", got, diff))
		}
	}

	if e.Positions != nil {
		want := positionKeys(e.Positions)
		got := resultPositions(r.Results)
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			add("positions", strings.Join(want, " "), strings.Join(got, " "))
		}
	}

	return errs
}

func describe(valid bool, err error) string {
	if err == nil {
		return fmt.Sprint(valid)
	}
	return fmt.Sprintf("%t (%v)", valid, err)
}

func expectedError(e Expect) string {
	var parts []string
	if e.ErrorKind != "" {
		parts = append(parts, e.ErrorKind)
	}
	if e.Error != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Error))
	}
	return "error " + strings.Join(parts, " ")
}

func closeTo(want, got float64) bool {
	return math.Abs(want-got) <= 1e-9*math.Max(1, math.Abs(want))
}

func resultIDs(set store.ResultSet) []string {
	var ids []string
	for _, g := range set {
		for _, o := range g.Objects {
			ids = append(ids, o.Properties.ID)
		}
	}
	return ids
}

// positionKeys renders positions the way resultPositions does: distinct
// and sorted.
func positionKeys(positions [][]float64) []string {
	seen := map[string]bool{}
	var keys []string
	for _, p := range positions {
		k := fmt.Sprint(p)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func resultPositions(set store.ResultSet) []string {
	var positions [][]float64
	for _, g := range set {
		for _, o := range g.Objects {
			positions = append(positions, o.Position)
		}
	}
	return positionKeys(positions)
}
