package config

import (
	"slices"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/nativeplug/pkg/config"
	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
	"github.com/smykla-skalski/nativeplug/pkg/logger"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidSymbol is returned when a symbol name is malformed.
	ErrInvalidSymbol = errors.New("invalid symbol name")

	// ErrInvalidFormat is returned when an output format is unknown.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidParallelism is returned when parallelism is negative.
	ErrInvalidParallelism = errors.New("invalid parallelism")

	// ErrInvalidExtension is returned when a library extension does not start with a dot.
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrUnsupportedVersion is returned for config versions newer than this build.
	ErrUnsupportedVersion = errors.New("unsupported config version")
)

var validFormats = []string{config.FormatTable, config.FormatJSON, config.FormatYAML}

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Version > config.CurrentConfigVersion {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrUnsupportedVersion,
			"version %d (latest %d)",
			cfg.Version,
			config.CurrentConfigVersion,
		))
	}

	if cfg.Loader != nil {
		if err := v.validateLoaderConfig(cfg.Loader); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "loader"))
		}
	}

	if cfg.Log != nil {
		if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "log.level"))
		}
	}

	if cfg.Inspect != nil {
		if err := v.validateInspectConfig(cfg.Inspect); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "inspect"))
		}
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateLoaderConfig(cfg *config.LoaderConfig) error {
	var validationErrors []error

	if _, err := dynlib.ParseMode(cfg.Binding, cfg.IsGlobal()); err != nil {
		validationErrors = append(validationErrors, errors.Wrap(err, "binding"))
	}

	symbols := []struct {
		key, name string
	}{
		{"identity_symbol", cfg.IdentitySymbol},
		{"init_symbol", cfg.InitSymbol},
		{"exit_symbol", cfg.ExitSymbol},
	}

	for _, s := range symbols {
		if err := validateSymbol(s.name); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, s.key))
		}
	}

	return combineErrors(validationErrors)
}

func (*Validator) validateInspectConfig(cfg *config.InspectConfig) error {
	var validationErrors []error

	if cfg.Format != "" && !slices.Contains(validFormats, cfg.Format) {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidFormat,
			"format %q (valid: %s)",
			cfg.Format,
			strings.Join(validFormats, ", "),
		))
	}

	if cfg.Parallelism < 0 {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidParallelism,
			"parallelism %d must not be negative",
			cfg.Parallelism,
		))
	}

	for _, name := range cfg.Resolve {
		if name == "" {
			validationErrors = append(validationErrors, errors.Wrap(ErrInvalidSymbol, "resolve: empty name"))

			continue
		}

		if err := validateSymbol(name); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "resolve"))
		}
	}

	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			validationErrors = append(validationErrors, errors.Wrapf(
				ErrInvalidExtension,
				"extensions: %q must start with a dot",
				ext,
			))
		}
	}

	return combineErrors(validationErrors)
}

// validateSymbol accepts empty names; callers decide whether a symbol is required.
func validateSymbol(name string) error {
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return errors.Wrapf(ErrInvalidSymbol, "%q contains whitespace", name)
	}

	if strings.ContainsRune(name, 0) {
		return errors.Wrapf(ErrInvalidSymbol, "%q contains a NUL byte", name)
	}

	return nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
