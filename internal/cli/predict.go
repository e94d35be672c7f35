package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/engine"
)

// PredictionResult holds the predicted volume of a query.
type PredictionResult struct {
	Predicted float64 `json:"predicted"`
}

// NewPredictCommand creates the predict command.
func NewPredictCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <query-file>",
		Short: "Estimate the volume a query covers",
		Long: `Estimate the volume of space a query covers, from shape volumes and
space bounding boxes. Objects are never read.

Exit codes:
  0 - Prediction succeeded
  1 - Query failed prediction
  2 - Command error (missing file, malformed document, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(rootOpts, args[0], cmd)
		},
	}
	addStoreFlags(cmd)
	return cmd
}

func runPredict(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	volume, err := engine.New(st, engine.WithLogger(logger)).Predict(p)
	if err != nil {
		return formatter.Fail(fail(ExitFailure, ErrCodePrediction, "prediction failed", err))
	}

	return formatter.Emit(PredictionResult{Predicted: volume}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "predicted volume: %g\n", volume)
		return err
	})
}
