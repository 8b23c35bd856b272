package config

// Output formats for the inspect command.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// DefaultParallelism is the number of libraries inspected concurrently.
const DefaultParallelism = 4

// InspectConfig configures the inspect command.
type InspectConfig struct {
	// Format is "table", "json" or "yaml".
	// Default: "table"
	Format string `json:"format,omitempty" koanf:"format" toml:"format,omitempty" jsonschema:"enum=table,enum=json,enum=yaml"`

	// Parallelism bounds how many libraries are opened at once.
	// Default: 4
	Parallelism int `json:"parallelism,omitempty" koanf:"parallelism" toml:"parallelism,omitempty"`

	// Resolve lists extra symbols to look up in every library.
	Resolve []string `json:"resolve,omitempty" koanf:"resolve" toml:"resolve,omitempty"`

	// AllowedDirs restricts inspected paths to these directories. Empty allows any.
	AllowedDirs []string `json:"allowed_dirs,omitempty" koanf:"allowed_dirs" toml:"allowed_dirs,omitempty"`

	// Extensions lists accepted library file extensions. Empty uses the
	// platform default (.so, .dylib or .dll).
	Extensions []string `json:"extensions,omitempty" koanf:"extensions" toml:"extensions,omitempty"`

	// AllowInvalid makes inspect exit successfully even when some libraries
	// are invalid.
	// Default: false
	AllowInvalid *bool `json:"allow_invalid,omitempty" koanf:"allow_invalid" toml:"allow_invalid,omitempty"`
}

// GetFormat returns the configured format or "table".
func (c *InspectConfig) GetFormat() string {
	if c == nil || c.Format == "" {
		return FormatTable
	}

	return c.Format
}

// GetParallelism returns the configured parallelism or DefaultParallelism.
func (c *InspectConfig) GetParallelism() int {
	if c == nil || c.Parallelism <= 0 {
		return DefaultParallelism
	}

	return c.Parallelism
}

// IsInvalidAllowed returns whether invalid libraries are tolerated.
func (c *InspectConfig) IsInvalidAllowed() bool {
	return c != nil && c.AllowInvalid != nil && *c.AllowInvalid
}
