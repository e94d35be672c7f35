package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/engine"
	"github.com/roach88/mercator/internal/store"
)

// QueryResult is the output of one query turn.
type QueryResult struct {
	QueryID   string        `json:"query_id"`
	Type      string        `json:"type"`
	Predicted float64       `json:"predicted"`
	Objects   int           `json:"objects"`
	Groups    []store.Group `json:"groups"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <query-file>",
		Short: "Execute a query against a dataset or database",
		Long: `Validate, predict and execute a query, printing the selected objects
grouped by reference space.

The store is the SQLite database given by --db, or an in-memory store
holding the --dataset file. With both, the dataset is written into the
database before the query runs.

Exit codes:
  0 - Query executed
  1 - Query failed validation or execution
  2 - Command error (missing file, malformed document, etc.)

Examples:
  mercator query q.yaml --dataset cells.cue
  mercator query q.yaml --db cells.db --viewport "0,0;10,10"
  mercator query - --db cells.db --format json < q.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args[0], cmd)
		},
	}
	addStoreFlags(cmd)
	addExecutionFlags(cmd)
	return cmd
}

func runQuery(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	v := opts.bindFlags(cmd, datasetKey, dbKey, viewportKey, epsilonKey)

	params, err := parameters(v)
	if err != nil {
		return formatter.Fail(fail(ExitCommandError, ErrCodeGeneric, "invalid parameters", err))
	}

	st, ce := openStore(cmd.Context(), v, false)
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

	report, err := engine.New(st, engine.WithLogger(logger)).Run(cmd.Context(), p, params)
	if err != nil {
		return formatter.Fail(fail(ExitFailure, queryErrorCode(err), "query failed", err))
	}

	result := QueryResult{
		QueryID:   report.QueryID,
		Type:      report.Type.String(),
		Predicted: report.Predicted,
		Objects:   report.Results.Len(),
		Groups:    report.Results,
	}
	if result.Groups == nil {
		result.Groups = []store.Group{}
	}

	return formatter.Emit(result, result.writeText)
}

func (r QueryResult) writeText(w io.Writer) error {
	fmt.Fprintf(w, "query %s: %d object(s) in %d space(s), type %s, predicted volume %g\n",
		r.QueryID, r.Objects, len(r.Groups), r.Type, r.Predicted)
	for _, g := range r.Groups {
		fmt.Fprintf(w, "%s:\n", g.Space)
		for _, o := range g.Objects {
			fmt.Fprintf(w, "  %s\t%s\t%v\n", o.Properties.ID, o.Properties.Type, []float64(o.Position))
		}
	}
	return nil
}
