package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/mercator/internal/engine"
)

// Configuration keys shared by the store-backed commands. Each key is also
// the name of its flag.
const (
	datasetKey  = "dataset"
	dbKey       = "db"
	viewportKey = "viewport"
	epsilonKey  = "epsilon"
)

// mustBindPFlag binds a key to a pflag and panics if the binding fails.
func mustBindPFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

func mustBindEnv(v *viper.Viper, input ...string) {
	if err := v.BindEnv(input...); err != nil {
		panic("failed to bind env key: " + err.Error())
	}
}

// addStoreFlags registers the flags selecting the store a command reads.
func addStoreFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(datasetKey, "", "CUE dataset file loaded before the query")
	flags.String(dbKey, "", "SQLite database file; used instead of an in-memory store when set")
}

// addExecutionFlags registers the per-turn execution settings.
func addExecutionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(viewportKey, "", `clip results to "low;high" raw positions, e.g. "0,0;10,10"`)
	flags.Float64(epsilonKey, engine.DefaultEpsilon, "inward nudge applied to shape boundaries by outside")
}

// bindFlags binds the given keys to the flags of the running command.
// Sibling commands define flags with the same names, so binding happens when
// a command runs rather than when it is built.
func (o *RootOptions) bindFlags(cmd *cobra.Command, keys ...string) *viper.Viper {
	v := o.viper()
	for _, key := range keys {
		if flag := cmd.Flags().Lookup(key); flag != nil {
			mustBindPFlag(v, key, flag)
		}
		mustBindEnv(v, key)
	}
	return v
}

// parameters builds the execution parameters from the bound settings.
func parameters(v *viper.Viper) (engine.Parameters, error) {
	params := engine.DefaultParameters()

	vp, err := engine.ParseViewPort(v.GetString(viewportKey))
	if err != nil {
		return params, fmt.Errorf("invalid viewport: %w", err)
	}
	params.ViewPort = vp

	if v.IsSet(epsilonKey) {
		eps := v.GetFloat64(epsilonKey)
		if eps < 0 {
			return params, fmt.Errorf("epsilon must be non-negative, got %g", eps)
		}
		params.Epsilon = eps
	}
	return params, nil
}
