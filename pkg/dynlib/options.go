package dynlib

// Option configures Open.
type Option func(*options)

type options struct {
	loader     Loader
	mode       Mode
	keepMapped bool
	initSymbol string
	exitSymbol string
}

func newOptions(opts []Option) options {
	o := options{
		loader: platformLoader{},
		mode:   ModeLazy,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMode sets the binding mode passed to the platform loader.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithLoader replaces the platform loader. A nil loader is ignored.
func WithLoader(loader Loader) Option {
	return func(o *options) {
		if loader != nil {
			o.loader = loader
		}
	}
}

// WithoutUnload keeps the library mapped in the process after the handle is
// released. Some libraries register process-wide state (atexit handlers,
// thread-local destructors) and crash when unmapped. The handle still moves to
// StateReleased and stops serving lookups.
func WithoutUnload() Option {
	return func(o *options) {
		o.keepMapped = true
	}
}

// WithLifecycle names zero-argument functions called by Handle.Init and
// Handle.Exit. Either name may be empty.
func WithLifecycle(initSymbol, exitSymbol string) Option {
	return func(o *options) {
		o.initSymbol = initSymbol
		o.exitSymbol = exitSymbol
	}
}
