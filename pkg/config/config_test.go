package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/nativeplug/pkg/config"
)

func ptr[T any](v T) *T {
	return &v
}

var _ = Describe("Config", func() {
	Context("when sections are unset", func() {
		It("returns empty sections with defaults", func() {
			var cfg *config.Config

			Expect(cfg.GetLoader().GetIdentitySymbol()).To(Equal(config.DefaultIdentitySymbol))
			Expect(cfg.GetLoader().IsGlobal()).To(BeFalse())
			Expect(cfg.GetLoader().IsUnloadDisabled()).To(BeFalse())
			Expect(cfg.GetLog().Level).To(BeEmpty())
			Expect(cfg.GetInspect().GetFormat()).To(Equal(config.FormatTable))
			Expect(cfg.GetInspect().GetParallelism()).To(Equal(config.DefaultParallelism))
			Expect(cfg.GetInspect().IsInvalidAllowed()).To(BeFalse())
		})
	})

	Context("when sections are set", func() {
		It("returns configured values", func() {
			cfg := &config.Config{
				Loader: &config.LoaderConfig{
					IdentitySymbol: "plugin_name",
					Global:         ptr(true),
					DisableUnload:  ptr(true),
				},
				Inspect: &config.InspectConfig{
					Format:       config.FormatYAML,
					Parallelism:  1,
					AllowInvalid: ptr(true),
				},
			}

			Expect(cfg.GetLoader().GetIdentitySymbol()).To(Equal("plugin_name"))
			Expect(cfg.GetLoader().IsGlobal()).To(BeTrue())
			Expect(cfg.GetLoader().IsUnloadDisabled()).To(BeTrue())
			Expect(cfg.GetInspect().GetFormat()).To(Equal(config.FormatYAML))
			Expect(cfg.GetInspect().GetParallelism()).To(Equal(1))
			Expect(cfg.GetInspect().IsInvalidAllowed()).To(BeTrue())
		})

		It("falls back to the default parallelism for non-positive values", func() {
			inspect := &config.InspectConfig{Parallelism: -3}
			Expect(inspect.GetParallelism()).To(Equal(config.DefaultParallelism))
		})
	})
})
