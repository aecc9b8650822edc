package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/spvc/internal/codes"
	"github.com/Norgate-AV/spvc/internal/compiler"
	"github.com/Norgate-AV/spvc/internal/version"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spvc [files...]",
		Short: "Cached SPIR-V shader compiler",
		Long: `Compile WGSL shaders to SPIR-V, resolving #include directives against
include directories and caching artifacts next to their sources.`,
		RunE:          runBuild,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		Version:       version.String(),
	}

	flags := root.PersistentFlags()
	flags.StringSliceP("include", "I", []string{}, "Include search directories, in lookup order")
	flags.StringSliceP("define", "D", []string{}, "Macro definitions (NAME or NAME=VALUE)")
	flags.String("spirv", "", "Target SPIR-V version (e.g., 1.3)")
	flags.StringP("kind", "k", "", "Shader kind for every input (vertex, fragment, compute)")
	flags.StringP("manifest", "m", "", "HCL manifest describing a batch build")
	flags.StringP("out", "o", "", "Write the SPIR-V of a single input to this file")
	flags.String("cache-dir", "", "Directory holding the artifact database")
	flags.BoolP("debug", "g", false, "Emit debug information")
	flags.Bool("validate", false, "Validate shaders before code generation")
	flags.Bool("werror", false, "Treat warnings as errors")
	flags.BoolP("suppress-warnings", "w", false, "Suppress warnings")
	flags.Bool("no-cache", false, "Disable the artifact cache")
	flags.BoolP("verbose", "v", false, "Verbose output")

	root.AddCommand(newBuildCmd(), newCleanCmd(), newStatsCmd())

	return root
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error (%d): %s", code, codes.GetErrorMessage(code))))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}

// cliError attaches an exit code to failures raised by the commands
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

func usageError(format string, args ...any) error {
	return &cliError{code: codes.UsageError, err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return codes.Success
	}

	var cliErr *cliError
	if errors.As(err, &cliErr) {
		return cliErr.code
	}

	var compileErr *compiler.Error
	if errors.As(err, &compileErr) {
		return compiler.CodeOf(err)
	}

	// Unknown flags and bad arguments come back from cobra unwrapped
	return codes.UsageError
}
