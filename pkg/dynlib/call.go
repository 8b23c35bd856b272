//go:build (darwin || freebsd || linux || windows) && (amd64 || arm64) && !nodlopen

package dynlib

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ebitengine/purego"
)

// funcBinder calls into native code through purego on every supported platform.
type funcBinder struct{}

func (funcBinder) CallString(fn uintptr) string {
	var call func() string

	purego.RegisterFunc(&call, fn)

	return call()
}

func (funcBinder) Register(fnPtr any, fn uintptr) (err error) {
	// purego panics on function types it cannot marshal.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("bind function: %s", fmt.Sprint(r))
		}
	}()

	purego.RegisterFunc(fnPtr, fn)

	return nil
}
