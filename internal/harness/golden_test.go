package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"union_of_boxes", "outside_surface"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "expectation failures: %v", result.Errors)
		})
	}
}

func TestSnapshot_Marshal(t *testing.T) {
	r := sampleResult()
	r.QueryID = "q-1"
	r.Query = `json(., inside(point{[1, 1], "Universe"}))`

	data, err := NewSnapshot("sample", r).Marshal()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"query": "json(., inside(point{[1, 1], \"Universe\"}))"`)
	assert.Contains(t, out, `"space": "brain"`)
	assert.NotContains(t, out, `"error"`)
	assert.True(t, out[len(out)-1] == '\n')
}

func TestSnapshot_EmptyResult(t *testing.T) {
	data, err := NewSnapshot("empty", NewResult()).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"groups": []`)
}
