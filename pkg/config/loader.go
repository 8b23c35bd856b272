package config

// DefaultIdentitySymbol is the identification function looked up when none is
// configured.
const DefaultIdentitySymbol = "datasource_name"

// LoaderConfig configures how libraries are opened.
type LoaderConfig struct {
	// IdentitySymbol names the exported zero-argument function returning the
	// library's name.
	// Default: "datasource_name"
	IdentitySymbol string `json:"identity_symbol,omitempty" koanf:"identity_symbol" toml:"identity_symbol,omitempty"`

	// Binding is "lazy" or "now". Ignored on windows.
	// Default: "lazy"
	Binding string `json:"binding,omitempty" koanf:"binding" toml:"binding,omitempty" jsonschema:"enum=lazy,enum=now"`

	// Global makes a library's symbols visible to libraries loaded after it.
	// Default: false
	Global *bool `json:"global,omitempty" koanf:"global" toml:"global,omitempty"`

	// DisableUnload keeps libraries mapped after their handles are closed.
	// Default: false
	DisableUnload *bool `json:"disable_unload,omitempty" koanf:"disable_unload" toml:"disable_unload,omitempty"`

	// InitSymbol names an optional zero-argument function called after a
	// library is identified.
	InitSymbol string `json:"init_symbol,omitempty" koanf:"init_symbol" toml:"init_symbol,omitempty"`

	// ExitSymbol names an optional zero-argument function called before a
	// library is closed.
	ExitSymbol string `json:"exit_symbol,omitempty" koanf:"exit_symbol" toml:"exit_symbol,omitempty"`
}

// GetIdentitySymbol returns the configured identity symbol or the default.
func (c *LoaderConfig) GetIdentitySymbol() string {
	if c == nil || c.IdentitySymbol == "" {
		return DefaultIdentitySymbol
	}

	return c.IdentitySymbol
}

// IsGlobal returns whether global symbol visibility is enabled.
func (c *LoaderConfig) IsGlobal() bool {
	return c != nil && c.Global != nil && *c.Global
}

// IsUnloadDisabled returns whether libraries stay mapped after close.
func (c *LoaderConfig) IsUnloadDisabled() bool {
	return c != nil && c.DisableUnload != nil && *c.DisableUnload
}
