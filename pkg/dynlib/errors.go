package dynlib

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnsupported is returned when the build has no dynamic loading support.
	ErrUnsupported = errors.New("dynamic loading not supported in this build")

	// ErrOpen marks failures of the platform loader to map a library.
	ErrOpen = errors.New("could not open library")

	// ErrEmptyPath is recorded when Open is called without a library path.
	ErrEmptyPath = errors.New("library path is required")

	// ErrSymbolNotFound marks symbols that are not exported by the library.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoIdentity marks libraries that opened but could not be identified.
	ErrNoIdentity = errors.New("library could not be identified")

	// ErrNotLoaded is returned by operations that need a mapping the handle
	// does not hold, either because the open failed or the handle was closed.
	ErrNotLoaded = errors.New("handle holds no library")
)

// ConfigurationError is returned by Open when dynamic loading support was not
// compiled into the current build. It is not recoverable at runtime.
type ConfigurationError struct {
	// Path is the library path the caller attempted to open.
	Path string

	cause error
}

func (e *ConfigurationError) Error() string {
	return "cannot open " + e.Path + ": " + e.cause.Error()
}

// Unwrap returns the underlying cause, which always matches ErrUnsupported.
func (e *ConfigurationError) Unwrap() error {
	return e.cause
}
