package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mercator/internal/dataset"
	"github.com/roach88/mercator/internal/store"
)

// LoadResult summarizes a dataset load.
type LoadResult struct {
	Database string `json:"database"`
	Spaces   int    `json:"spaces"`
	Objects  int    `json:"objects"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <dataset.cue>",
		Short: "Load a CUE dataset into a SQLite database",
		Long: `Check a CUE dataset against the dataset schema and write its spaces
and objects into the SQLite database given by --db, in one transaction.
The database is created if needed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args[0], cmd)
		},
	}
	cmd.Flags().String(dbKey, "", "SQLite database file (required)")
	return cmd
}

func runLoad(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	v := opts.bindFlags(cmd, dbKey)

	dbPath := v.GetString(dbKey)
	if dbPath == "" {
		return formatter.Fail(fail(ExitCommandError, ErrCodeNoStore, "--db is required", nil))
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return formatter.Fail(fail(ExitCommandError, ErrCodeDataset, "failed to load dataset", err))
	}
	formatter.Logger().Debug("parsed dataset", "path", path, "objects", len(ds.Objects))

	db, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(fail(ExitCommandError, ErrCodeStore, "failed to open database", err))
	}
	defer db.Close()

	if err := ds.Into(cmd.Context(), db); err != nil {
		return formatter.Fail(fail(ExitCommandError, ErrCodeStore, "failed to write dataset", err))
	}

	result := LoadResult{
		Database: dbPath,
		Spaces:   len(ds.Registry.Names()),
		Objects:  len(ds.Objects),
	}
	return formatter.Emit(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ loaded %d object(s) in %d space(s) into %s\n",
			result.Objects, result.Spaces, result.Database)
		return err
	})
}
