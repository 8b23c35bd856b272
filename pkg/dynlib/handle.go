package dynlib

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Handle owns a single native library mapping.
//
// A Handle returned by Open is in one of three states: StateOpenFailed (nothing
// held), StateIdentifyFailed (mapped but unidentified) or StateIdentified. Close
// moves a held handle to StateReleased. If the caller drops a held handle
// without closing it, the mapping is released when the handle is garbage
// collected.
//
// Accessors are safe for concurrent use, and Close waits for in-flight lookups.
// Addresses returned by Symbol must not be used after Close.
type Handle struct {
	path       string
	mode       Mode
	loader     Loader
	initSymbol string
	exitSymbol string

	mu       sync.RWMutex
	state    State
	identity string
	err      error
	lib      *mapping
	cleanup  runtime.Cleanup
}

// mapping is the part of a Handle reachable from its GC cleanup, so it must
// not point back at the Handle.
type mapping struct {
	loader   Loader
	native   uintptr
	unload   bool
	released atomic.Bool
}

// release unmaps the library at most once. Platform errors are dropped: there
// is nothing a caller can do about a failed unload.
func (m *mapping) release() {
	if !m.released.CompareAndSwap(false, true) {
		return
	}

	if m.unload {
		_ = m.loader.Close(m.native)
	}
}

// Open loads the library at path and identifies it by calling the exported
// zero-argument function identitySymbol.
//
// Failing to open or identify the library is not an error: the returned Handle
// reports it through Valid, State and Err. The only error Open returns is a
// *ConfigurationError when the build has no dynamic loading support, in which
// case no Handle is returned.
func Open(path, identitySymbol string, opts ...Option) (*Handle, error) {
	o := newOptions(opts)

	h := &Handle{
		path:       path,
		mode:       o.mode,
		loader:     o.loader,
		initSymbol: o.initSymbol,
		exitSymbol: o.exitSymbol,
		state:      StateOpening,
	}

	native, err := o.loader.Open(path, o.mode)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			return nil, &ConfigurationError{Path: path, cause: err}
		}

		h.fail(StateOpenFailed, errors.Wrapf(errors.Mark(err, ErrOpen), "open %s", path))

		return h, nil
	}

	if native == 0 {
		h.fail(StateOpenFailed, errors.Wrapf(ErrOpen, "open %s: loader returned no handle", path))

		return h, nil
	}

	h.lib = &mapping{
		loader: o.loader,
		native: native,
		unload: !o.keepMapped,
	}
	h.cleanup = runtime.AddCleanup(h, (*mapping).release, h.lib)

	h.identify(identitySymbol)

	return h, nil
}

// identify runs during Open, before the handle is shared, so it does not lock.
func (h *Handle) identify(symbol string) {
	if symbol == "" {
		h.fail(StateIdentifyFailed, errors.Wrap(ErrNoIdentity, "no identity symbol given"))

		return
	}

	fn, err := h.loader.Symbol(h.lib.native, symbol)
	if err != nil || fn == 0 {
		if err == nil {
			err = ErrSymbolNotFound
		}

		h.fail(StateIdentifyFailed, errors.Wrapf(
			errors.Mark(errors.Mark(err, ErrSymbolNotFound), ErrNoIdentity),
			"resolve identity symbol %q", symbol,
		))

		return
	}

	name := h.loader.CallString(fn)
	if name == "" {
		h.fail(StateIdentifyFailed, errors.Wrapf(ErrNoIdentity, "identity symbol %q returned no text", symbol))

		return
	}

	h.identity = name
	h.state = StateIdentified
}

func (h *Handle) fail(state State, err error) {
	h.state = state
	h.err = err
}

// Path returns the library path given to Open.
func (h *Handle) Path() string {
	return h.path
}

// Mode returns the binding mode the library was opened with.
func (h *Handle) Mode() Mode {
	return h.mode
}

// Valid reports whether the library is mapped and identified. A library that
// opened but could not be identified is not valid, even though it stays mapped
// until Close.
func (h *Handle) Valid() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lib != nil && h.identity != ""
}

// Held reports whether the handle currently owns a library mapping.
func (h *Handle) Held() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lib != nil
}

// Identity returns the name reported by the identification symbol, or "" if
// the library was not identified or has been closed.
func (h *Handle) Identity() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.identity
}

// State returns the handle's lifecycle state.
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.state
}

// Err returns why the library could not be opened or identified, including
// the platform loader's diagnostic when there is one. It is nil for an
// identified handle.
func (h *Handle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.err
}

// DescribeError returns a one-line diagnostic for display when Valid is false.
func (h *Handle) DescribeError() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subject := h.identity
	if subject == "" {
		subject = h.path
	}

	if h.err == nil {
		return fmt.Sprintf("could not open: '%s'", subject)
	}

	return fmt.Sprintf("could not open: '%s': %v", subject, h.err)
}

// Symbol returns the address of the exported symbol name. It reports false
// when the handle holds no mapping or the library does not export name.
// Repeated lookups of the same name return the same address.
func (h *Handle) Symbol(name string) (uintptr, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	addr, err := h.lookup(name)

	return addr, err == nil
}

// lookup expects h.mu to be held.
func (h *Handle) lookup(name string) (uintptr, error) {
	if h.lib == nil {
		return 0, ErrNotLoaded
	}

	addr, err := h.loader.Symbol(h.lib.native, name)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			return 0, err
		}

		return 0, errors.Wrapf(errors.Mark(err, ErrSymbolNotFound), "resolve %q", name)
	}

	if addr == 0 {
		return 0, errors.Wrapf(ErrSymbolNotFound, "resolve %q", name)
	}

	return addr, nil
}

// Bind resolves name and binds it to the function variable pointed to by
// fnPtr, e.g. a *func(int32) int32. The signature is the caller's
// responsibility; a mismatch is undefined behaviour once called.
func (h *Handle) Bind(name string, fnPtr any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	addr, err := h.lookup(name)
	if err != nil {
		return err
	}

	if err := h.loader.Register(fnPtr, addr); err != nil {
		return errors.Wrapf(err, "bind %q", name)
	}

	return nil
}

// Init calls the init function configured with WithLifecycle. It does nothing
// when none was configured.
func (h *Handle) Init() error {
	return h.callHook(h.initSymbol)
}

// Exit calls the exit function configured with WithLifecycle. It does nothing
// when none was configured.
func (h *Handle) Exit() error {
	return h.callHook(h.exitSymbol)
}

func (h *Handle) callHook(symbol string) error {
	if symbol == "" {
		return nil
	}

	var hook func()
	if err := h.Bind(symbol, &hook); err != nil {
		return err
	}

	hook()

	return nil
}

// Close releases the library mapping. It is safe to call more than once and
// always returns nil; the platform's unload result is not reported.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.lib == nil {
		return nil
	}

	h.cleanup.Stop()
	h.lib.release()
	h.lib = nil
	h.identity = ""
	h.state = StateReleased

	return nil
}
