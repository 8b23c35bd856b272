package probe_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/nativeplug/internal/probe"
	"github.com/smykla-skalski/nativeplug/pkg/dynlib"
	"github.com/smykla-skalski/nativeplug/pkg/logger"
)

const (
	nameSymbol   = "datasource_name"
	nativeHandle = uintptr(0x7f00)
	nameFunc     = uintptr(0x7f10)
	createFunc   = uintptr(0x7f20)
	initFunc     = uintptr(0x7f30)
	exitFunc     = uintptr(0x7f40)
)

// writeLibrary creates a placeholder file; the mock loader never reads it.
func writeLibrary(dir, name string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte("\x7fELF-placeholder"), 0o600)).To(Succeed())

	return path
}

// fixedClock returns a clock advancing by step on every call.
func fixedClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	return func() time.Time {
		t = t.Add(step)

		return t
	}
}

var _ = Describe("Prober", func() {
	var (
		ctrl   *gomock.Controller
		loader *dynlib.MockLoader
		dir    string
		opts   probe.Options
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		loader = dynlib.NewMockLoader(ctrl)
		dir = GinkgoT().TempDir()
		opts = probe.Options{
			IdentitySymbol: nameSymbol,
			Extensions:     []string{".so"},
			Parallelism:    2,
		}
	})

	newProber := func() *probe.Prober {
		p := probe.New(opts, logger.NewNoOpLogger(), dynlib.WithLoader(loader))
		probe.SetClock(p, fixedClock(3*time.Millisecond))

		return p
	}

	expectIdentified := func(path, identity string) {
		loader.EXPECT().Open(path, dynlib.ModeLazy).Return(nativeHandle, nil)
		loader.EXPECT().Symbol(nativeHandle, nameSymbol).Return(nameFunc, nil)
		loader.EXPECT().CallString(nameFunc).Return(identity)
		loader.EXPECT().Close(nativeHandle).Return(nil)
	}

	Describe("Inspect", func() {
		It("reports an identified library and closes it", func() {
			path := writeLibrary(dir, "libshape.so")
			expectIdentified(path, "shape")

			report, err := newProber().Inspect(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Path).To(Equal(path))
			Expect(report.Valid).To(BeTrue())
			Expect(report.Identity).To(Equal("shape"))
			Expect(report.State).To(Equal(dynlib.StateIdentified.String()))
			Expect(report.Mode).To(Equal("lazy"))
			Expect(report.Size).To(Equal(int64(len("\x7fELF-placeholder"))))
			Expect(report.LoadTime).To(Equal(3 * time.Millisecond))
			Expect(report.Error).To(BeEmpty())
		})

		It("resolves extra symbols", func() {
			opts.Resolve = []string{"plugin_create", "plugin_destroy"}
			path := writeLibrary(dir, "libshape.so")

			expectIdentified(path, "shape")
			loader.EXPECT().Symbol(nativeHandle, "plugin_create").Return(createFunc, nil)
			loader.EXPECT().Symbol(nativeHandle, "plugin_destroy").
				Return(uintptr(0), errors.New("undefined symbol: plugin_destroy"))

			report, err := newProber().Inspect(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Symbols).To(Equal([]probe.SymbolReport{
				{Name: "plugin_create", Found: true, Address: "0x7f20"},
				{Name: "plugin_destroy"},
			}))
			Expect(report.MissingSymbols()).To(Equal([]string{"plugin_destroy"}))
		})

		It("reports libraries that fail to open", func() {
			path := writeLibrary(dir, "libbroken.so")
			loader.EXPECT().Open(path, dynlib.ModeLazy).
				Return(uintptr(0), errors.New("invalid ELF header"))

			report, err := newProber().Inspect(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Valid).To(BeFalse())
			Expect(report.State).To(Equal("open-failed"))
			Expect(report.Error).To(HavePrefix("could not open: '" + path + "'"))
			Expect(report.Error).To(ContainSubstring("invalid ELF header"))
		})

		It("reports libraries without an identity", func() {
			path := writeLibrary(dir, "libanon.so")
			loader.EXPECT().Open(path, dynlib.ModeLazy).Return(nativeHandle, nil)
			loader.EXPECT().Symbol(nativeHandle, nameSymbol).
				Return(uintptr(0), errors.New("undefined symbol"))
			loader.EXPECT().Close(nativeHandle).Return(nil)

			report, err := newProber().Inspect(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Valid).To(BeFalse())
			Expect(report.State).To(Equal("identify-failed"))
		})

		It("passes the configured mode and keeps libraries mapped", func() {
			opts.Mode = dynlib.ModeNow | dynlib.ModeGlobal
			opts.KeepMapped = true
			path := writeLibrary(dir, "libshape.so")

			loader.EXPECT().Open(path, dynlib.ModeNow|dynlib.ModeGlobal).Return(nativeHandle, nil)
			loader.EXPECT().Symbol(nativeHandle, nameSymbol).Return(nameFunc, nil)
			loader.EXPECT().CallString(nameFunc).Return("shape")
			loader.EXPECT().Close(gomock.Any()).Times(0)

			report, err := newProber().Inspect(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Mode).To(Equal("now+global"))
		})

		It("runs lifecycle hooks on valid libraries", func() {
			opts.InitSymbol = "plugin_init"
			opts.ExitSymbol = "plugin_exit"
			path := writeLibrary(dir, "libshape.so")

			var calls []string

			bindTo := func(name string) func(any, uintptr) error {
				return func(fnPtr any, _ uintptr) error {
					*fnPtr.(*func()) = func() { calls = append(calls, name) }

					return nil
				}
			}

			expectIdentified(path, "shape")
			loader.EXPECT().Symbol(nativeHandle, "plugin_init").Return(initFunc, nil)
			loader.EXPECT().Register(gomock.Any(), initFunc).DoAndReturn(bindTo("init"))
			loader.EXPECT().Symbol(nativeHandle, "plugin_exit").Return(exitFunc, nil)
			loader.EXPECT().Register(gomock.Any(), exitFunc).DoAndReturn(bindTo("exit"))

			report, err := newProber().Inspect(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Error).To(BeEmpty())
			Expect(calls).To(Equal([]string{"init", "exit"}))
		})

		It("records a missing lifecycle hook", func() {
			opts.InitSymbol = "plugin_init"
			path := writeLibrary(dir, "libshape.so")

			expectIdentified(path, "shape")
			loader.EXPECT().Symbol(nativeHandle, "plugin_init").Return(uintptr(0), nil)

			report, err := newProber().Inspect(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Valid).To(BeTrue())
			Expect(report.Error).To(ContainSubstring("init"))
			Expect(report.Error).To(ContainSubstring("symbol not found"))
		})

		DescribeTable("rejects paths before opening them",
			func(setup func() string, want error) {
				path := setup()

				report, err := newProber().Inspect(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Valid).To(BeFalse())
				Expect(report.State).To(Equal(probe.StateRejected))
				Expect(report.Error).To(ContainSubstring(want.Error()))
			},
			Entry("wrong extension",
				func() string { return writeLibrary(dir, "notes.txt") }, probe.ErrInvalidExtension),
			Entry("traversal",
				func() string { return "../plugins/libshape.so" }, probe.ErrPathTraversal),
			Entry("empty path",
				func() string { return "" }, probe.ErrPathRequired),
			Entry("outside allowed dirs",
				func() string {
					opts.AllowedDirs = []string{filepath.Join(dir, "allowed")}

					return writeLibrary(dir, "libshape.so")
				}, probe.ErrPathNotAllowed),
		)

		It("does not hand bare library names to the loader when directories are restricted", func() {
			GinkgoT().Chdir(dir)
			opts.AllowedDirs = []string{dir}
			loader.EXPECT().Open(gomock.Any(), gomock.Any()).Times(0)

			report, err := newProber().Inspect("libc.so.6")
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Valid).To(BeFalse())
			Expect(report.State).To(Equal(probe.StateRejected))
			Expect(report.Error).To(ContainSubstring(probe.ErrPathNotAllowed.Error()))
		})

		It("returns a configuration error when loading is unsupported", func() {
			path := writeLibrary(dir, "libshape.so")
			loader.EXPECT().Open(path, dynlib.ModeLazy).Return(uintptr(0), dynlib.ErrUnsupported)

			_, err := newProber().Inspect(path)
			Expect(err).To(HaveOccurred())

			var cfgErr *dynlib.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Path).To(Equal(path))
		})
	})

	Describe("InspectAll", func() {
		It("returns reports in argument order", func() {
			paths := []string{
				writeLibrary(dir, "liba.so"),
				writeLibrary(dir, "libb.so"),
				writeLibrary(dir, "libc.so"),
			}

			for i, path := range paths {
				handle := nativeHandle + uintptr(i)
				loader.EXPECT().Open(path, dynlib.ModeLazy).Return(handle, nil)
				loader.EXPECT().Symbol(handle, nameSymbol).Return(nameFunc+uintptr(i), nil)
				loader.EXPECT().CallString(nameFunc+uintptr(i)).Return(filepath.Base(path))
				loader.EXPECT().Close(handle).Return(nil)
			}

			reports, err := newProber().InspectAll(context.Background(), paths)
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(3))

			for i, r := range reports {
				Expect(r.Path).To(Equal(paths[i]))
				Expect(r.Identity).To(Equal(filepath.Base(paths[i])))
			}

			Expect(probe.AllValid(reports)).To(BeTrue())
		})

		It("stops on configuration errors", func() {
			opts.Parallelism = 1
			path := writeLibrary(dir, "liba.so")
			loader.EXPECT().Open(gomock.Any(), gomock.Any()).
				Return(uintptr(0), dynlib.ErrUnsupported).MinTimes(1)

			reports, err := newProber().InspectAll(
				context.Background(),
				[]string{path, path + ".1", path + ".2"},
			)
			Expect(errors.Is(err, dynlib.ErrUnsupported)).To(BeTrue())
			Expect(reports).To(BeNil())
		})

		It("honours cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := newProber().InspectAll(ctx, []string{writeLibrary(dir, "liba.so")})
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})

		It("handles an empty list", func() {
			reports, err := newProber().InspectAll(context.Background(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(BeEmpty())
		})
	})
})

var _ = Describe("Summarize", func() {
	It("counts outcomes", func() {
		s := probe.Summarize([]probe.Report{
			{Valid: true},
			{State: "open-failed"},
			{State: probe.StateRejected},
			{Valid: true},
		})

		Expect(s).To(Equal(probe.Summary{Total: 4, Valid: 2, Invalid: 1, Rejected: 1}))
	})
})
