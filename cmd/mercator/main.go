// Command mercator validates, predicts and executes spatial queries.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mercator/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
