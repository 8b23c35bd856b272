// Package main provides the CLI entry point for nativeplug.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeFailure indicates invalid libraries or a usage/config error.
	ExitCodeFailure = 1

	// ExitCodeUnsupported indicates a build without dynamic loading support.
	ExitCodeUnsupported = 2
)

var (
	debugMode   bool
	traceMode   bool
	configPath  string
	noColorFlag bool
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitCodeOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var cfgErr *dynlib.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeUnsupported
	}

	return ExitCodeFailure
}

var rootCmd = &cobra.Command{
	Use:   "nativeplug",
	Short: "Inspect native plugin libraries",
	Long: `Inspect native plugin libraries.

nativeplug opens shared libraries (.so, .dylib, .dll) with the platform
loader, asks each one for its name through an exported identification
function, and reports what it found.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to configuration file (default: .nativeplug.toml)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&noColorFlag,
		"no-color",
		false,
		"Disable colored output",
	)
}
