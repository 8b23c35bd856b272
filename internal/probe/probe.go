// Package probe inspects native plugin libraries: it validates paths, opens
// each library through dynlib, records what it found, and releases it again.
package probe

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/smykla-skalski/nativeplug/internal/xdg"
	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
	"github.com/smykla-skalski/nativeplug/pkg/logger"
)

// Options controls how libraries are validated and opened.
type Options struct {
	// IdentitySymbol names the zero-argument function returning the library name.
	IdentitySymbol string

	// Resolve lists extra symbols to look up in every library.
	Resolve []string

	// Mode is the binding mode passed to the platform loader.
	Mode dynlib.Mode

	// KeepMapped leaves libraries mapped after inspection.
	KeepMapped bool

	// InitSymbol and ExitSymbol name optional lifecycle functions called around
	// the inspection of a valid library.
	InitSymbol string
	ExitSymbol string

	// AllowedDirs restricts library paths. Empty allows any.
	AllowedDirs []string

	// Extensions lists accepted file extensions. Empty accepts any.
	Extensions []string

	// Parallelism bounds concurrent inspections. Values below 1 mean 1.
	Parallelism int
}

// Prober inspects libraries.
type Prober struct {
	opts     Options
	log      logger.Logger
	openOpts []dynlib.Option
	now      func() time.Time
}

// New creates a Prober. extra is appended to the dynlib options derived from
// opts, so it can override the loader.
func New(opts Options, log logger.Logger, extra ...dynlib.Option) *Prober {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	openOpts := []dynlib.Option{
		dynlib.WithMode(opts.Mode),
		dynlib.WithLifecycle(opts.InitSymbol, opts.ExitSymbol),
	}

	if opts.KeepMapped {
		openOpts = append(openOpts, dynlib.WithoutUnload())
	}

	return &Prober{
		opts:     opts,
		log:      log,
		openOpts: append(openOpts, extra...),
		now:      time.Now,
	}
}

// Inspect validates, opens, inspects and closes the library at path.
//
// Problems with the library itself end up in the Report. The only error
// returned is a *dynlib.ConfigurationError when the build cannot load
// libraries at all.
func (p *Prober) Inspect(path string) (Report, error) {
	log := p.log.With("path", path)
	report := Report{Path: path}

	if err := p.validate(path); err != nil {
		log.Info("library rejected", "error", err)

		report.State = StateRejected
		report.Error = err.Error()

		return report, nil
	}

	if info, err := os.Stat(xdg.ExpandPathSilent(path)); err == nil {
		report.Size = info.Size()
	}

	log.Debug("opening library", "mode", p.opts.Mode)

	start := p.now()

	h, err := dynlib.Open(xdg.ExpandPathSilent(path), p.opts.IdentitySymbol, p.openOpts...)
	if err != nil {
		log.Error("dynamic loading unavailable", "error", err)

		return report, errors.Wrapf(err, "inspect %s", path)
	}

	report.LoadTime = p.now().Sub(start)

	defer func() {
		_ = h.Close()
	}()

	report.Mode = h.Mode().String()
	report.Valid = h.Valid()
	report.Identity = h.Identity()
	report.State = h.State().String()

	if !report.Valid {
		report.Error = h.DescribeError()
		log.Info("library invalid", "state", report.State, "error", h.Err())
	} else {
		log.Debug("library identified", "identity", report.Identity, "load_time", report.LoadTime)
	}

	report.Symbols = p.resolve(h)

	if report.Valid {
		if err := p.runLifecycle(h); err != nil {
			log.Error("lifecycle hook failed", "error", err)

			report.Error = err.Error()
		}
	}

	return report, nil
}

func (p *Prober) validate(path string) error {
	if err := ValidatePath(path, p.opts.AllowedDirs); err != nil {
		return err
	}

	return ValidateExtension(path, p.opts.Extensions)
}

func (p *Prober) resolve(h *dynlib.Handle) []SymbolReport {
	if len(p.opts.Resolve) == 0 {
		return nil
	}

	symbols := make([]SymbolReport, 0, len(p.opts.Resolve))

	for _, name := range p.opts.Resolve {
		s := SymbolReport{Name: name}

		if addr, ok := h.Symbol(name); ok {
			s.Found = true
			s.Address = formatAddress(addr)
		}

		symbols = append(symbols, s)
	}

	return symbols
}

func (*Prober) runLifecycle(h *dynlib.Handle) error {
	if err := h.Init(); err != nil {
		return errors.Wrap(err, "init")
	}

	if err := h.Exit(); err != nil {
		return errors.Wrap(err, "exit")
	}

	return nil
}

// InspectAll inspects paths concurrently, bounded by Options.Parallelism.
// Reports are returned in the order of paths. A configuration error or
// context cancellation stops the remaining inspections.
func (p *Prober) InspectAll(ctx context.Context, paths []string) ([]Report, error) {
	reports := make([]Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.opts.Parallelism, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			report, err := p.Inspect(path)
			if err != nil {
				return err
			}

			reports[i] = report

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.log.Info("inspection finished", "libraries", len(paths))

	return reports, nil
}
