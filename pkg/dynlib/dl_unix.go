//go:build (darwin || freebsd || linux) && (amd64 || arm64) && !nodlopen

package dynlib

import (
	"github.com/ebitengine/purego"
)

// Supported reports whether this build can load dynamic libraries.
const Supported = true

// platformLoader is backed by dlopen(3) through purego.
type platformLoader struct {
	funcBinder
}

func (platformLoader) Open(path string, mode Mode) (uintptr, error) {
	// dlopen("") maps the main program, not a plugin.
	if path == "" {
		return 0, ErrEmptyPath
	}

	return purego.Dlopen(path, rtldFlags(mode))
}

func (platformLoader) Symbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}

func (platformLoader) Close(lib uintptr) error {
	if lib == 0 {
		return nil
	}

	return purego.Dlclose(lib)
}

func rtldFlags(mode Mode) int {
	flags := purego.RTLD_LAZY
	if mode&ModeNow != 0 {
		flags = purego.RTLD_NOW
	}

	if mode&ModeGlobal != 0 {
		return flags | purego.RTLD_GLOBAL
	}

	return flags | purego.RTLD_LOCAL
}
