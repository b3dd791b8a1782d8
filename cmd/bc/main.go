// Command bc is the B-to-C compiler driver.
package main

import (
	"fmt"
	"os"

	"github.com/bthompson/bcc/cmd/bc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bc: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
