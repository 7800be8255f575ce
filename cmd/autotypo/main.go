// Command autotypo tracks spelling corrections and promotes repeated ones
// into autocorrect rules.
package main

import (
	"os"

	"github.com/roach88/autotypo/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		format, _ := cmd.PersistentFlags().GetString("format")
		if format != "json" {
			format = "text"
		}
		cli.ReportError(os.Stderr, format, err)
		os.Exit(cli.GetExitCode(err))
	}
}
