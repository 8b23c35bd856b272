package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smykla-skalski/nativeplug/internal/color"
	internalconfig "github.com/smykla-skalski/nativeplug/internal/config"
	"github.com/smykla-skalski/nativeplug/internal/xdg"
	"github.com/smykla-skalski/nativeplug/pkg/config"
	"github.com/smykla-skalski/nativeplug/pkg/logger"
)

// stdoutLogFile makes the logger write to stderr instead of a file.
const stdoutLogFile = "-"

// loadConfig loads configuration with the command's explicitly set flags as
// the highest precedence layer.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, err
	}

	cfg, err := loader.Load(collectFlags(cmd))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	for _, key := range loader.UnknownKeys() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown configuration key %q\n", key)
	}

	return cfg, nil
}

// collectFlags returns the values of flags set on the command line, keyed by
// flag name.
func collectFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	fs := cmd.Flags()

	fs.Visit(func(f *pflag.Flag) {
		var (
			value any
			err   error
		)

		switch f.Value.Type() {
		case "string":
			value, err = fs.GetString(f.Name)
		case "bool":
			value, err = fs.GetBool(f.Name)
		case "int":
			value, err = fs.GetInt(f.Name)
		case "stringSlice":
			value, err = fs.GetStringSlice(f.Name)
		default:
			return
		}

		if err == nil {
			flags[f.Name] = value
		}
	})

	return flags
}

// newLogger creates the logger described by cfg, adjusted by --debug and
// --trace. The returned func closes the log file.
func newLogger(cfg *config.Config) (logger.Logger, func(), error) {
	level, err := logger.ParseLevel(cfg.GetLog().Level)
	if err != nil {
		return nil, nil, err
	}

	level = logger.LevelFromFlags(debugMode, traceMode, level)

	path := cfg.GetLog().File
	if path == "" {
		path = xdg.LogFile()
	}

	if path == stdoutLogFile {
		return logger.NewWriterLogger(os.Stderr, level), func() {}, nil
	}

	path = xdg.ExpandPathSilent(path)

	if err := os.MkdirAll(filepath.Dir(path), internalconfig.ConfigDirMode); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create log directory for %s", path)
	}

	log, err := logger.NewFileLogger(path, level)
	if err != nil {
		return nil, nil, err
	}

	return log, func() { _ = log.Close() }, nil
}

// newTheme returns the color theme for the command's output stream.
func newTheme(cmd *cobra.Command) color.Theme {
	out, ok := cmd.OutOrStdout().(*os.File)

	return color.NewTheme(ok && color.Enabled(noColorFlag, out))
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
