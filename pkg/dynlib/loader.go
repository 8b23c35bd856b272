package dynlib

//go:generate mockgen -source=loader.go -destination=loader_mock.go -package=dynlib

// Loader is the platform capability a Handle is written against. Exactly one
// implementation is compiled into a build; tests substitute their own through
// WithLoader.
type Loader interface {
	// Open maps the library at path and returns its native handle.
	// It returns an error matching ErrUnsupported when the build has no
	// dynamic loading support.
	Open(path string, mode Mode) (uintptr, error)

	// Symbol returns the address of the exported symbol name in lib.
	Symbol(lib uintptr, name string) (uintptr, error)

	// Close releases a native handle returned by Open.
	Close(lib uintptr) error

	// CallString calls the zero-argument C function at fn and returns the
	// string it points to, or "" for a NULL result.
	CallString(fn uintptr) string

	// Register binds the C function at fn to the Go function variable pointed
	// to by fnPtr.
	Register(fnPtr any, fn uintptr) error
}
