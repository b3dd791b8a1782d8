package cmd

import (
	goerrors "errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bc",
	Short: "B-to-C compiler",
	Long: `bc translates Ken Thompson's B language to C.

It lexes, parses, and analyzes a B source file, then emits a single C99
translation unit that a host C compiler links against a small runtime
of b_* functions.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}

// usageError marks a failure in argument handling as distinct from a
// compile error, so Execute's caller can map it to exit code 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode maps a returned error to the driver's exit code: 0 for nil,
// 2 for a usage error, 1 for everything else (a fatal compile error).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var u *usageError
	if goerrors.As(err, &u) {
		return 2
	}
	return 1
}
