package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Type  string `json:"type,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query-file>",
		Short: "Type-check a query without running it",
		Long: `Type-check a query document and print its value type.

Only the space catalog is consulted: objects are never read. Without
--dataset or --db the default 3-D universe is assumed. Use "-" to read
the query from stdin.

Exit codes:
  0 - Query is valid
  1 - Query failed validation
  2 - Command error (missing file, malformed document, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	addStoreFlags(cmd)
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	v := opts.bindFlags(cmd, datasetKey, dbKey)

	st, ce := openStore(cmd.Context(), v, true)
	if ce != nil {
		return formatter.Fail(ce)
	}
	defer st.Close()

	p, ce := readQuery(path, cmd.InOrStdin(), st.Universe().Name)
	if ce != nil {
		return formatter.Fail(ce)
	}
	logger := formatter.Logger()
	logger.Debug("decoded query", "query", ast.Format(p))

	t, err := engine.New(st, engine.WithLogger(logger)).Validate(p)
	if err != nil {
		return formatter.Fail(fail(ExitFailure, ErrCodeValidation, "query is invalid", err))
	}

	return formatter.Emit(ValidationResult{Valid: true, Type: t.String()}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ valid: %s\n", t)
		return err
	})
}
