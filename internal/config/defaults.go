// Package config provides internal configuration loading and processing.
package config

import (
	"runtime"

	"github.com/smykla-skalski/nativeplug/pkg/config"
	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *config.Config {
	global := false
	disableUnload := false
	allowInvalid := false

	return &config.Config{
		Version: config.CurrentConfigVersion,
		Loader: &config.LoaderConfig{
			IdentitySymbol: config.DefaultIdentitySymbol,
			Binding:        dynlib.BindingLazy,
			Global:         &global,
			DisableUnload:  &disableUnload,
		},
		Log: &config.LogConfig{
			Level: "error",
		},
		Inspect: &config.InspectConfig{
			Format:       config.FormatTable,
			Parallelism:  config.DefaultParallelism,
			Extensions:   DefaultExtensions(runtime.GOOS),
			AllowInvalid: &allowInvalid,
		},
	}
}

// DefaultExtensions returns the native library extensions for goos.
func DefaultExtensions(goos string) []string {
	switch goos {
	case "windows":
		return []string{".dll"}
	case "darwin":
		return []string{".dylib", ".so", ".bundle"}
	default:
		return []string{".so"}
	}
}

// defaultsToMap mirrors DefaultConfig for the koanf defaults layer.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"loader": map[string]any{
			"identity_symbol": config.DefaultIdentitySymbol,
			"binding":         dynlib.BindingLazy,
			"global":          false,
			"disable_unload":  false,
		},
		"log": map[string]any{
			"level": "error",
		},
		"inspect": map[string]any{
			"format":        config.FormatTable,
			"parallelism":   config.DefaultParallelism,
			"extensions":    DefaultExtensions(runtime.GOOS),
			"allow_invalid": false,
		},
	}
}
