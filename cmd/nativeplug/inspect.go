package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/nativeplug/internal/probe"
	"github.com/smykla-skalski/nativeplug/internal/probe/reporters"
	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
)

// errInvalidLibraries is returned when at least one library is not valid.
var errInvalidLibraries = errors.New("invalid libraries")

var inspectCmd = &cobra.Command{
	Use:   "inspect PATH|PATTERN...",
	Short: "Open libraries and report their identity",
	Long: `Open each library, call its identification function and report the result.

Arguments may be paths, bare library names resolved by the platform loader
(e.g. libm.so.6), or glob patterns with ** support.

Exits with status 1 when any library is invalid, unless --allow-invalid is set.

Examples:
  nativeplug inspect ./plugins/*.so
  nativeplug inspect --symbol plugin_name --resolve plugin_create lib/**/*.dylib
  nativeplug inspect --format json plugin.dll`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	flags := inspectCmd.Flags()
	flags.StringP("symbol", "s", "", "Identification function name (default: datasource_name)")
	flags.StringSliceP("resolve", "r", nil, "Additional symbols to look up (repeatable)")
	flags.StringP("format", "o", "", "Output format: table, json or yaml")
	flags.String("binding", "", "Symbol binding: lazy or now")
	flags.Bool("global", false, "Make library symbols globally visible")
	flags.Bool("disable-unload", false, "Keep libraries mapped after inspection")
	flags.String("init-symbol", "", "Function to call after a library is identified")
	flags.String("exit-symbol", "", "Function to call before a library is released")
	flags.StringSlice("allowed-dir", nil, "Only accept libraries under these directories")
	flags.StringSlice("extension", nil, "Accepted library extensions")
	flags.IntP("parallelism", "j", 0, "Libraries inspected concurrently")
	flags.Bool("allow-invalid", false, "Exit successfully even if some libraries are invalid")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	loaderCfg := cfg.GetLoader()
	inspectCfg := cfg.GetInspect()

	mode, err := dynlib.ParseMode(loaderCfg.Binding, loaderCfg.IsGlobal())
	if err != nil {
		return err
	}

	reporter, err := reporters.New(inspectCfg.GetFormat(), newTheme(cmd))
	if err != nil {
		return err
	}

	paths, err := probe.Expand(args)
	if err != nil {
		return err
	}

	log.Debug("inspecting libraries",
		"count", len(paths),
		"identity_symbol", loaderCfg.GetIdentitySymbol(),
		"mode", mode.String(),
	)

	prober := probe.New(probe.Options{
		IdentitySymbol: loaderCfg.GetIdentitySymbol(),
		Resolve:        inspectCfg.Resolve,
		Mode:           mode,
		KeepMapped:     loaderCfg.IsUnloadDisabled(),
		InitSymbol:     loaderCfg.InitSymbol,
		ExitSymbol:     loaderCfg.ExitSymbol,
		AllowedDirs:    inspectCfg.AllowedDirs,
		Extensions:     inspectCfg.Extensions,
		Parallelism:    inspectCfg.GetParallelism(),
	}, log)

	reports, err := prober.InspectAll(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if err := reporter.Report(cmd.OutOrStdout(), reports); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if probe.AllValid(reports) || inspectCfg.IsInvalidAllowed() {
		return nil
	}

	s := probe.Summarize(reports)

	return errors.Wrapf(errInvalidLibraries, "%d of %d", s.Total-s.Valid, s.Total)
}
