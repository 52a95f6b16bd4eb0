// Command paysim authorizes payments and runs concurrent authorization
// simulations.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/paysim/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
