//go:build nodlopen

package dynlib_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
)

var _ = Describe("Handle without loading support", func() {
	It("is compiled as unsupported", func() {
		Expect(dynlib.Supported).To(BeFalse())
	})

	DescribeTable("fails every open with a configuration error",
		func(path string) {
			h, err := dynlib.Open(path, "datasource_name")

			Expect(h).To(BeNil())
			Expect(errors.Is(err, dynlib.ErrUnsupported)).To(BeTrue())

			var cfgErr *dynlib.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Path).To(Equal(path))
		},
		Entry("missing file", "/nonexistent/lib.so"),
		Entry("system library", "libc.so.6"),
		Entry("relative path", "plugins/shape.input"),
	)
})
