// Package dynlib opens native shared libraries at runtime and resolves symbols
// from them.
//
// A Handle owns one library mapping. Open attempts the load immediately, then
// resolves and calls a caller-named identification function (a zero-argument C
// function returning a NUL-terminated string) to label the library:
//
//	h, err := dynlib.Open("/usr/lib/mapnik/input/shape.input", "datasource_name")
//	if err != nil {
//		// this build has no dynamic loading support
//	}
//	defer h.Close()
//
//	if !h.Valid() {
//		log.Println(h.DescribeError())
//		return
//	}
//
//	addr, ok := h.Symbol("create")
//
// Load and lookup failures are routine and are reported through Valid, Err and
// the boolean result of Symbol rather than as errors. Only the absence of
// dynamic loading support in the current build makes Open fail.
//
// The platform backend is selected at build time: purego on darwin, freebsd and
// linux, golang.org/x/sys/windows on windows, and a stub everywhere else or when
// the nodlopen build tag is set.
package dynlib
