//go:build nodlopen || !((darwin || freebsd || linux || windows) && (amd64 || arm64))

package dynlib

// Supported reports whether this build can load dynamic libraries.
const Supported = false

// platformLoader reports ErrUnsupported for every operation.
type platformLoader struct{}

func (platformLoader) Open(string, Mode) (uintptr, error) {
	return 0, ErrUnsupported
}

func (platformLoader) Symbol(uintptr, string) (uintptr, error) {
	return 0, ErrUnsupported
}

func (platformLoader) Close(uintptr) error {
	return ErrUnsupported
}

func (platformLoader) CallString(uintptr) string {
	return ""
}

func (platformLoader) Register(any, uintptr) error {
	return ErrUnsupported
}
