package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

var (
	cellsDataset = filepath.Join("testdata", "cells.cue")
	boxQuery     = filepath.Join("testdata", "queries", "box.yaml")
	crossQuery   = filepath.Join("testdata", "queries", "cross.yaml")
	allQuery     = filepath.Join("testdata", "queries", "everything.yaml")
	badQuery     = filepath.Join("testdata", "queries", "malformed.yaml")
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, nil, args...)
}

func executeWithInput(t *testing.T, stdin *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
