package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/nativeplug/internal/xdg"
	"github.com/smykla-skalski/nativeplug/pkg/config"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// ProjectConfigFile is the project configuration file name, looked up in
	// the working directory.
	ProjectConfigFile = ".nativeplug.toml"

	// EnvPrefix prefixes environment variables mapped onto config keys.
	EnvPrefix = "NATIVEPLUG_"
)

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"inspect.resolve":      true,
	"inspect.allowed_dirs": true,
	"inspect.extensions":   true,
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (NATIVEPLUG_*)
// 3. Project Config (.nativeplug.toml, or the file given with --config)
// 4. Global Config ($XDG_CONFIG_HOME/nativeplug/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k          *koanf.Koanf
	globalPath string
	workDir    string
	tomlOpts   koanf.UnmarshalConf
	unknown    []string
}

// NewKoanfLoader creates a new KoanfLoader with default locations.
func NewKoanfLoader() (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewKoanfLoaderWithPaths(xdg.GlobalConfigFile(), workDir), nil
}

// NewKoanfLoaderWithPaths creates a new KoanfLoader with custom locations (for testing).
func NewKoanfLoaderWithPaths(globalPath, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:          koanf.New("."),
		globalPath: globalPath,
		workDir:    workDir,
		tomlOpts: koanf.UnmarshalConf{
			Tag:       "koanf",
			FlatPaths: false,
		},
	}
}

// Load loads configuration from all sources with precedence and validates it.
//
// The "config" flag, when set to a non-empty string, replaces project config
// discovery and must name an existing file.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.globalPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	projectPath, err := l.projectConfig(flags)
	if err != nil {
		return nil, err
	}

	if projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flagConfig := flagsToConfig(flags); len(flagConfig) > 0 {
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var (
		cfg config.Config
		md  mapstructure.Metadata
	)

	opts := l.tomlOpts
	opts.DecoderConfig = CustomDecoderConfig()
	opts.DecoderConfig.Result = &cfg
	opts.DecoderConfig.Metadata = &md

	if err := l.k.UnmarshalWithConf("", &cfg, opts); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	l.unknown = slices.Sorted(slices.Values(md.Unused))

	return &cfg, nil
}

// projectConfig returns the project config path: the explicit --config file,
// or .nativeplug.toml in the working directory if it exists.
func (l *KoanfLoader) projectConfig(flags map[string]any) (string, error) {
	if explicit, ok := flags["config"].(string); ok && explicit != "" {
		path := xdg.ExpandPathSilent(explicit)
		if !fileExists(path) {
			return "", errors.Wrapf(ErrConfigNotFound, "%s", explicit)
		}

		return path, nil
	}

	if path := l.ProjectConfigPath(); fileExists(path) {
		return path, nil
	}

	return "", nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// Reject world-writable files
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps environment variables to config paths. The first
// underscore separates the section from the key:
// NATIVEPLUG_LOADER_IDENTITY_SYMBOL → loader.identity_symbol
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, rest, found := strings.Cut(key, "_")
	if !found {
		return key, value
	}

	key = section + "." + rest

	if listKeys[key] {
		return key, splitList(value)
	}

	return key, value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// flagsToConfig converts CLI flags to a configuration map. Flags absent from
// the map, empty strings and empty lists leave lower layers untouched.
func flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	set := func(section, key string, value any) {
		ensureMapKey(result, section)[key] = value
	}

	for name, value := range flags {
		switch v := value.(type) {
		case string:
			if v == "" {
				continue
			}

			switch name {
			case "symbol", "identity-symbol":
				set("loader", "identity_symbol", v)
			case "binding":
				set("loader", "binding", v)
			case "init-symbol":
				set("loader", "init_symbol", v)
			case "exit-symbol":
				set("loader", "exit_symbol", v)
			case "format":
				set("inspect", "format", v)
			case "log-level":
				set("log", "level", v)
			case "log-file":
				set("log", "file", v)
			}

		case bool:
			switch name {
			case "global":
				set("loader", "global", v)
			case "disable-unload":
				set("loader", "disable_unload", v)
			case "allow-invalid":
				set("inspect", "allow_invalid", v)
			}

		case int:
			if name == "parallelism" && v > 0 {
				set("inspect", "parallelism", v)
			}

		case []string:
			if len(v) == 0 {
				continue
			}

			switch name {
			case "resolve":
				set("inspect", "resolve", v)
			case "allowed-dir":
				set("inspect", "allowed_dirs", v)
			case "extension":
				set("inspect", "extensions", v)
			}
		}
	}

	return result
}

func ensureMapKey(m map[string]any, key string) map[string]any {
	if existing, ok := m[key].(map[string]any); ok {
		return existing
	}

	created := make(map[string]any)
	m[key] = created

	return created
}

// UnknownKeys returns the keys from the last load that match no
// configuration field, sorted.
func (l *KoanfLoader) UnknownKeys() []string {
	return l.unknown
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return l.globalPath
}

// ProjectConfigPath returns the path to the project configuration file.
func (l *KoanfLoader) ProjectConfigPath() string {
	return filepath.Join(l.workDir, ProjectConfigFile)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
