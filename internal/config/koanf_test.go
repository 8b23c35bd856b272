package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/nativeplug/pkg/config"
	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
)

// newSeparatedLoader creates a loader with separate global and work dirs.
func newSeparatedLoader() (loader *KoanfLoader, globalPath, workDir string) {
	root := GinkgoT().TempDir()

	globalPath = filepath.Join(root, "xdg", "nativeplug", "config.toml")
	workDir = filepath.Join(root, "work")
	Expect(os.MkdirAll(workDir, 0o755)).To(Succeed())

	return NewKoanfLoaderWithPaths(globalPath, workDir), globalPath, workDir
}

func writeFile(path, content string, mode os.FileMode) {
	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), mode)).To(Succeed())
	// WriteFile respects umask; force the mode under test.
	Expect(os.Chmod(path, mode)).To(Succeed())
}

var _ = Describe("KoanfLoader", func() {
	Describe("defaults", func() {
		It("loads defaults when no config files exist", func() {
			loader, _, _ := newSeparatedLoader()

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Version).To(Equal(config.CurrentConfigVersion))
			Expect(cfg.GetLoader().GetIdentitySymbol()).To(Equal(config.DefaultIdentitySymbol))
			Expect(cfg.GetLoader().Binding).To(Equal(dynlib.BindingLazy))
			Expect(cfg.GetLoader().IsGlobal()).To(BeFalse())
			Expect(cfg.GetLoader().IsUnloadDisabled()).To(BeFalse())
			Expect(cfg.GetLog().Level).To(Equal("error"))
			Expect(cfg.GetInspect().GetFormat()).To(Equal(config.FormatTable))
			Expect(cfg.GetInspect().GetParallelism()).To(Equal(config.DefaultParallelism))
			Expect(cfg.GetInspect().Extensions).NotTo(BeEmpty())
		})
	})

	Describe("precedence", func() {
		It("applies global, then project, then env, then flags", func() {
			loader, globalPath, workDir := newSeparatedLoader()

			writeFile(globalPath, `[loader]
identity_symbol = "global_name"
binding = "now"

[inspect]
format = "json"
parallelism = 2
`, 0o600)

			writeFile(filepath.Join(workDir, ProjectConfigFile), `[loader]
identity_symbol = "project_name"

[inspect]
parallelism = 8
`, 0o600)

			GinkgoT().Setenv("NATIVEPLUG_INSPECT_FORMAT", "yaml")

			cfg, err := loader.Load(map[string]any{
				"identity-symbol": "flag_name",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Loader.IdentitySymbol).To(Equal("flag_name"))
			Expect(cfg.Loader.Binding).To(Equal(dynlib.BindingNow))
			Expect(cfg.Inspect.Format).To(Equal(config.FormatYAML))
			Expect(cfg.Inspect.Parallelism).To(Equal(8))
		})

		It("keeps sibling defaults when a section is partially set", func() {
			loader, _, workDir := newSeparatedLoader()

			writeFile(filepath.Join(workDir, ProjectConfigFile), `[loader]
global = true
`, 0o644)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Loader.IsGlobal()).To(BeTrue())
			Expect(cfg.Loader.GetIdentitySymbol()).To(Equal(config.DefaultIdentitySymbol))
			Expect(cfg.Loader.Binding).To(Equal(dynlib.BindingLazy))
		})

		It("ignores empty flag values", func() {
			loader, _, workDir := newSeparatedLoader()

			writeFile(filepath.Join(workDir, ProjectConfigFile), `[inspect]
format = "json"
resolve = ["plugin_create"]
`, 0o600)

			cfg, err := loader.Load(map[string]any{
				"format":      "",
				"resolve":     []string{},
				"parallelism": 0,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Inspect.Format).To(Equal(config.FormatJSON))
			Expect(cfg.Inspect.Resolve).To(Equal([]string{"plugin_create"}))
			Expect(cfg.Inspect.Parallelism).To(Equal(config.DefaultParallelism))
		})
	})

	Describe("explicit config file", func() {
		It("replaces project config discovery", func() {
			loader, _, workDir := newSeparatedLoader()

			writeFile(filepath.Join(workDir, ProjectConfigFile), `[log]
level = "info"
`, 0o600)

			explicit := filepath.Join(workDir, "custom.toml")
			writeFile(explicit, `[log]
level = "debug"
`, 0o600)

			cfg, err := loader.Load(map[string]any{"config": explicit})
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Log.Level).To(Equal("debug"))
		})

		It("fails when the file does not exist", func() {
			loader, _, workDir := newSeparatedLoader()

			_, err := loader.Load(map[string]any{
				"config": filepath.Join(workDir, "missing.toml"),
			})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrConfigNotFound)).To(BeTrue())
		})
	})

	Describe("security", func() {
		It("rejects world-writable config files", func() {
			loader, globalPath, _ := newSeparatedLoader()

			writeFile(globalPath, `[log]
level = "debug"
`, 0o666)

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidPermissions)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("world-writable"))
		})
	})

	Describe("validation", func() {
		It("returns validation errors from Load", func() {
			loader, _, workDir := newSeparatedLoader()

			writeFile(filepath.Join(workDir, ProjectConfigFile), `[loader]
binding = "eager"
`, 0o600)

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
		})

		It("skips validation in LoadWithoutValidation", func() {
			loader, _, workDir := newSeparatedLoader()

			writeFile(filepath.Join(workDir, ProjectConfigFile), `[loader]
binding = "eager"
`, 0o600)

			cfg, err := loader.LoadWithoutValidation(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Loader.Binding).To(Equal("eager"))
		})

		It("reports malformed TOML", func() {
			loader, _, workDir := newSeparatedLoader()

			writeFile(filepath.Join(workDir, ProjectConfigFile), "[loader\n", 0o600)

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to load project config"))
		})
	})

	Describe("decoding", func() {
		It("reports unknown keys", func() {
			loader, _, workDir := newSeparatedLoader()

			writeFile(filepath.Join(workDir, ProjectConfigFile), `[loader]
identity_symbol = "name"
identity = "typo"

[plugins]
dir = "/opt"
`, 0o600)

			_, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(loader.UnknownKeys()).To(ContainElements("loader.identity", "plugins"))
		})

		It("accepts yes/no booleans from the environment", func() {
			loader, _, _ := newSeparatedLoader()

			GinkgoT().Setenv("NATIVEPLUG_LOADER_GLOBAL", "yes")
			GinkgoT().Setenv("NATIVEPLUG_INSPECT_ALLOW_INVALID", "on")
			GinkgoT().Setenv("NATIVEPLUG_INSPECT_PARALLELISM", "7")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Loader.IsGlobal()).To(BeTrue())
			Expect(cfg.Inspect.IsInvalidAllowed()).To(BeTrue())
			Expect(cfg.Inspect.Parallelism).To(Equal(7))
		})

		It("splits list values from the environment", func() {
			loader, _, _ := newSeparatedLoader()

			GinkgoT().Setenv("NATIVEPLUG_INSPECT_EXTENSIONS", ".so, .bundle")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Inspect.Extensions).To(Equal([]string{".so", ".bundle"}))
		})
	})

	Describe("paths", func() {
		It("reports configured paths", func() {
			loader, globalPath, workDir := newSeparatedLoader()

			Expect(loader.GlobalConfigPath()).To(Equal(globalPath))
			Expect(loader.ProjectConfigPath()).To(Equal(filepath.Join(workDir, ".nativeplug.toml")))
		})
	})
})

var _ = Describe("envTransform", func() {
	DescribeTable("maps variables to config keys",
		func(key, value, wantKey string, wantValue any) {
			gotKey, gotValue := envTransform(key, value)
			Expect(gotKey).To(Equal(wantKey))
			Expect(gotValue).To(Equal(wantValue))
		},
		Entry("section and key",
			"NATIVEPLUG_LOADER_BINDING", "now", "loader.binding", "now"),
		Entry("key with underscores",
			"NATIVEPLUG_LOADER_IDENTITY_SYMBOL", "name", "loader.identity_symbol", "name"),
		Entry("list key",
			"NATIVEPLUG_INSPECT_RESOLVE", "a, b,,c", "inspect.resolve", []string{"a", "b", "c"}),
		Entry("top-level key",
			"NATIVEPLUG_VERSION", "1", "version", "1"),
	)
})

var _ = Describe("flagsToConfig", func() {
	It("maps known flags to sections", func() {
		got := flagsToConfig(map[string]any{
			"identity-symbol": "name",
			"global":          true,
			"disable-unload":  false,
			"allowed-dir":     []string{"/opt/plugins"},
			"parallelism":     3,
			"log-level":       "info",
			"unknown":         "ignored",
		})

		Expect(got).To(Equal(map[string]any{
			"loader": map[string]any{
				"identity_symbol": "name",
				"global":          true,
				"disable_unload":  false,
			},
			"inspect": map[string]any{
				"allowed_dirs": []string{"/opt/plugins"},
				"parallelism":  3,
			},
			"log": map[string]any{
				"level": "info",
			},
		}))
	})

	It("returns an empty map for nil flags", func() {
		Expect(flagsToConfig(nil)).To(BeEmpty())
	})
})
