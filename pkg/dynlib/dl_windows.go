//go:build windows && (amd64 || arm64) && !nodlopen

package dynlib

import (
	"golang.org/x/sys/windows"
)

// Supported reports whether this build can load dynamic libraries.
const Supported = true

// platformLoader is backed by LoadLibrary and GetProcAddress.
type platformLoader struct {
	funcBinder
}

func (platformLoader) Open(path string, _ Mode) (uintptr, error) {
	if path == "" {
		return 0, ErrEmptyPath
	}

	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}

	return uintptr(h), nil
}

func (platformLoader) Symbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}

func (platformLoader) Close(lib uintptr) error {
	if lib == 0 {
		return nil
	}

	return windows.FreeLibrary(windows.Handle(lib))
}
