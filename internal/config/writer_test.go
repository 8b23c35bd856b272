package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/nativeplug/internal/schema"
	"github.com/smykla-skalski/nativeplug/pkg/config"
)

var _ = Describe("Writer", func() {
	var (
		globalPath string
		workDir    string
		writer     *Writer
	)

	BeforeEach(func() {
		root := GinkgoT().TempDir()
		globalPath = filepath.Join(root, "xdg", "nativeplug", "config.toml")
		workDir = filepath.Join(root, "work")
		Expect(os.MkdirAll(workDir, 0o700)).To(Succeed())

		writer = NewWriterWithPaths(globalPath, workDir)
	})

	It("writes the global config with secure permissions", func() {
		Expect(writer.IsGlobalConfigExists()).To(BeFalse())
		Expect(writer.WriteGlobal(DefaultConfig())).To(Succeed())
		Expect(writer.IsGlobalConfigExists()).To(BeTrue())

		info, err := os.Stat(globalPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(ConfigFileMode)))

		dirInfo, err := os.Stat(filepath.Dir(globalPath))
		Expect(err).NotTo(HaveOccurred())
		Expect(dirInfo.Mode().Perm()).To(Equal(os.FileMode(ConfigDirMode)))
	})

	It("prepends the schema directive", func() {
		Expect(writer.WriteProject(DefaultConfig())).To(Succeed())

		data, err := os.ReadFile(writer.ProjectConfigPath())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix(schema.SchemaDirective() + "\n"))
		Expect(string(data)).To(ContainSubstring("[loader]"))
		Expect(string(data)).To(ContainSubstring(`identity_symbol = 'datasource_name'`))
	})

	It("round-trips through the loader", func() {
		cfg := DefaultConfig()
		cfg.Loader.IdentitySymbol = "plugin_name"
		cfg.Inspect.Format = config.FormatJSON
		cfg.Inspect.Resolve = []string{"plugin_create", "plugin_destroy"}

		Expect(writer.WriteProject(cfg)).To(Succeed())
		Expect(writer.IsProjectConfigExists()).To(BeTrue())

		loaded, err := NewKoanfLoaderWithPaths(globalPath, workDir).Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Loader.IdentitySymbol).To(Equal("plugin_name"))
		Expect(loaded.Inspect.Format).To(Equal(config.FormatJSON))
		Expect(loaded.Inspect.Resolve).To(Equal([]string{"plugin_create", "plugin_destroy"}))
	})

	It("rejects a nil config", func() {
		err := writer.WriteGlobal(nil)
		Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
	})
})

var _ = Describe("DefaultExtensions", func() {
	DescribeTable("per platform",
		func(goos string, want []string) {
			Expect(DefaultExtensions(goos)).To(Equal(want))
		},
		Entry("linux", "linux", []string{".so"}),
		Entry("freebsd", "freebsd", []string{".so"}),
		Entry("darwin", "darwin", []string{".dylib", ".so", ".bundle"}),
		Entry("windows", "windows", []string{".dll"}),
	)
})
