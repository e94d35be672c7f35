package engine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mercator/internal/ast"
)

func TestEngineRun(t *testing.T) {
	s := newTestStore(t, at("a", 0, 0), at("b", 1, 1))
	e := New(s, WithLogger(discardLogger()), WithIDGenerator(NewFixedGenerator("q-1")))

	p := query(t, `distinct: {union: [
  {inside: {point: {position: [0, 0]}}},
  {inside: {point: {position: [0, 0]}}}]}`)

	report, err := e.Run(context.Background(), p, DefaultParameters())
	require.NoError(t, err)

	assert.Equal(t, "q-1", report.QueryID)
	assert.Equal(t, "Vector[Int, Int]", report.Type.String())
	assert.Equal(t, 2*ast.PointVolume, report.Predicted)
	assert.NoError(t, report.PredictionErr)
	assert.Equal(t, 1, report.Results.Len())
	assert.Equal(t, []string{"a"}, ids(report.Results))
}

func TestEngineRunStopsOnValidationError(t *testing.T) {
	s := newTestStore(t, at("a", 0, 0))
	e := New(s, WithLogger(discardLogger()), WithIDGenerator(NewFixedGenerator("q-1")))

	p := query(t, `union: [
  {inside: {point: {position: [0, 0]}}},
  {inside: {point: {position: [0, 0], space: brain}}}]`)

	report, err := e.Run(context.Background(), p, DefaultParameters())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "q-1", report.QueryID)
	assert.Nil(t, report.Results)
	assert.Zero(t, report.Predicted)
}

func TestEngineRunAppliesViewPort(t *testing.T) {
	s := newTestStore(t, at("a", 0, 0), at("b", 1, 1), at("c", 5, 5))
	e := New(s, WithLogger(discardLogger()), WithIDGenerator(NewFixedGenerator("q-1")))

	vp, err := ParseViewPort("0,0;2,2")
	require.NoError(t, err)
	params := DefaultParameters()
	params.ViewPort = vp

	report, err := e.Run(context.Background(), query(t, `filter: {predicate: {"<": [".", [100, 100]]}}`), params)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(report.Results))
}

func TestEngineRunLogsQueryID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestStore(t, at("a", 0, 0))
	e := New(s, WithLogger(logger), WithIDGenerator(NewFixedGenerator("q-42")))

	_, err := e.Run(context.Background(), query(t, `inside: {label: {id: a}}`), DefaultParameters())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"query_id":"q-42"`)
	assert.Contains(t, out, `"phase":"execute"`)
	assert.Contains(t, out, `"msg":"query complete"`)
}

func TestEngineValidateAndPredict(t *testing.T) {
	e := New(newTestStore(t), WithLogger(discardLogger()))
	p := query(t, `inside: {hyperrectangle: {corners: [[0, 0], [2, 3]]}}`)

	typ, err := e.Validate(p)
	require.NoError(t, err)
	assert.Equal(t, "Vector[Int, Int]", typ.String())

	v, err := e.Predict(p)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, v, 1e-12)
}
