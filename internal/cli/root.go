package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootOptions holds global flags for all commands.
//
// Every setting can also come from a MERCATOR_* environment variable or
// from the YAML file named by --config, flags taking precedence.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string

	v *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mercator CLI.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MERCATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	opts := &RootOptions{v: v}

	cmd := &cobra.Command{
		Use:   "mercator",
		Short: "Mercator - volumetric spatial queries",
		Long:  "Validate, predict and execute spatial queries over objects positioned in reference spaces.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "verbose output")
	mustBindPFlag(v, "verbose", flags.Lookup("verbose"))

	flags.String("format", "text", "output format (json|text)")
	mustBindPFlag(v, "format", flags.Lookup("format"))

	flags.StringVar(&opts.Config, "config", "", "YAML configuration file")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPredictCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// load reads the configuration file, if any, and resolves the global
// settings.
func (o *RootOptions) load() error {
	if o.Config != "" {
		o.v.SetConfigFile(o.Config)
		if err := o.v.ReadInConfig(); err != nil {
			return WrapExitError(ExitCommandError, "failed to read config", err)
		}
	}

	o.Verbose = o.v.GetBool("verbose")
	o.Format = o.v.GetString("format")
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	return nil
}

// viper returns the settings of the command tree, creating a standalone
// instance for commands built outside NewRootCommand.
func (o *RootOptions) viper() *viper.Viper {
	if o.v == nil {
		o.v = viper.New()
	}
	return o.v
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns the output formatter for a running command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  o.Format,
		Writer:  cmd.OutOrStdout(),
		Diag:    cmd.ErrOrStderr(),
		Verbose: o.Verbose,
	}
}
