// Package config provides configuration schema types for nativeplug.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for nativeplug.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Loader controls how libraries are opened and identified.
	Loader *LoaderConfig `json:"loader,omitempty" koanf:"loader" toml:"loader,omitempty"`

	// Log controls diagnostic logging.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`

	// Inspect controls the inspect command.
	Inspect *InspectConfig `json:"inspect,omitempty" koanf:"inspect" toml:"inspect,omitempty"`
}

// GetLoader returns the loader section, or an empty one when unset.
func (c *Config) GetLoader() *LoaderConfig {
	if c == nil || c.Loader == nil {
		return &LoaderConfig{}
	}

	return c.Loader
}

// GetLog returns the log section, or an empty one when unset.
func (c *Config) GetLog() *LogConfig {
	if c == nil || c.Log == nil {
		return &LogConfig{}
	}

	return c.Log
}

// GetInspect returns the inspect section, or an empty one when unset.
func (c *Config) GetInspect() *InspectConfig {
	if c == nil || c.Inspect == nil {
		return &InspectConfig{}
	}

	return c.Inspect
}
