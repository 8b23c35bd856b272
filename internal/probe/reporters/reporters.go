// Package reporters renders probe reports.
package reporters

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/nativeplug/internal/color"
	"github.com/smykla-skalski/nativeplug/internal/probe"
	"github.com/smykla-skalski/nativeplug/pkg/config"
)

// ErrUnknownFormat is returned by New for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Reporter writes reports to w.
type Reporter interface {
	Report(w io.Writer, reports []probe.Report) error
}

// New returns the reporter for format: "table", "json" or "yaml".
//
//nolint:ireturn // format-dependent implementation
func New(format string, theme color.Theme) (Reporter, error) {
	switch format {
	case config.FormatTable, "":
		return &TableReporter{Theme: theme}, nil
	case config.FormatJSON:
		return JSONReporter{}, nil
	case config.FormatYAML:
		return YAMLReporter{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// JSONReporter writes reports as an indented JSON array.
type JSONReporter struct{}

// Report implements Reporter.
func (JSONReporter) Report(w io.Writer, reports []probe.Report) error {
	if reports == nil {
		reports = []probe.Report{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(reports); err != nil {
		return errors.Wrap(err, "failed to encode reports as JSON")
	}

	return nil
}

// YAMLReporter writes reports as a YAML sequence.
type YAMLReporter struct{}

// Report implements Reporter.
func (YAMLReporter) Report(w io.Writer, reports []probe.Report) error {
	if reports == nil {
		reports = []probe.Report{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(reports); err != nil {
		return errors.Wrap(err, "failed to encode reports as YAML")
	}

	return errors.Wrap(enc.Close(), "failed to flush YAML")
}
