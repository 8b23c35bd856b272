package dynlib

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Mode selects how the platform loader binds a library. The zero value is
// lazy binding with local symbol visibility. Mode is ignored on windows.
type Mode uint8

const (
	// ModeNow resolves all undefined symbols at open time instead of on first use.
	ModeNow Mode = 1 << iota

	// ModeGlobal makes the library's symbols available to libraries loaded later.
	ModeGlobal
)

const (
	// ModeLazy defers symbol binding until first use.
	ModeLazy Mode = 0

	// ModeLocal keeps the library's symbols private to lookups through its handle.
	ModeLocal Mode = 0
)

// Binding names accepted by ParseMode.
const (
	BindingLazy = "lazy"
	BindingNow  = "now"
)

// ErrInvalidBinding is returned by ParseMode for unknown binding names.
var ErrInvalidBinding = errors.New("invalid binding")

// ParseMode builds a Mode from a binding name ("lazy" or "now", case-insensitive,
// empty meaning lazy) and a global visibility flag.
func ParseMode(binding string, global bool) (Mode, error) {
	var m Mode

	switch strings.ToLower(strings.TrimSpace(binding)) {
	case "", BindingLazy:
	case BindingNow:
		m |= ModeNow
	default:
		return 0, errors.Wrapf(ErrInvalidBinding, "%q (want %q or %q)", binding, BindingLazy, BindingNow)
	}

	if global {
		m |= ModeGlobal
	}

	return m, nil
}

// String returns "lazy" or "now", followed by "+global" when ModeGlobal is set.
func (m Mode) String() string {
	s := BindingLazy
	if m&ModeNow != 0 {
		s = BindingNow
	}

	if m&ModeGlobal != 0 {
		s += "+global"
	}

	return s
}
