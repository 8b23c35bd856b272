package config

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is "debug", "info" or "error".
	// Default: "error"
	Level string `json:"level,omitempty" koanf:"level" toml:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=error"`

	// File is the log file path. Empty logs to stderr.
	// Default: "$XDG_STATE_HOME/nativeplug/nativeplug.log"
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`
}
