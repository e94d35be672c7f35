package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mercator", cmd.Use)
	assert.Contains(t, cmd.Long, "spatial queries")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "predict", "query", "load", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestQueryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	queryCmd, _, err := cmd.Find([]string{"query"})
	require.NoError(t, err)

	for _, name := range []string{"dataset", "db", "viewport", "epsilon"} {
		require.NotNil(t, queryCmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "2.220446049250313e-16", queryCmd.Flags().Lookup("epsilon").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "validate", boxQuery, "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestFormatFromEnvironment(t *testing.T) {
	t.Setenv("MERCATOR_FORMAT", "json")

	out, err := execute(t, "validate", boxQuery)
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"ok"`)
}

func TestConfigFile(t *testing.T) {
	dataset, err := filepath.Abs(cellsDataset)
	require.NoError(t, err)

	config := filepath.Join(t.TempDir(), "mercator.yaml")
	require.NoError(t, os.WriteFile(config, []byte("format: json\ndataset: "+dataset+"\n"), 0o644))

	out, err := execute(t, "query", boxQuery, "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"ok"`)
	assert.Contains(t, out, `"objects":2`)
}

func TestConfigFileMissing(t *testing.T) {
	_, err := execute(t, "validate", boxQuery, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to read config")
}
