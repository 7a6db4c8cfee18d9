// Command logwindow checks what a process under test wrote to its debug log.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/logwindow/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
