package probe

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// ErrNoMatch is returned when a pattern matches no files.
var ErrNoMatch = errors.New("pattern matched no files")

// Expand turns command line arguments into library paths. Arguments without
// glob metacharacters are kept verbatim so the platform loader can search for
// bare library names. Patterns support "**". Duplicates are dropped, keeping
// first-seen order.
func Expand(args []string) ([]string, error) {
	seen := make(map[string]bool, len(args))
	paths := make([]string, 0, len(args))

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if !isPattern(arg) {
			add(arg)

			continue
		}

		if !doublestar.ValidatePathPattern(arg) {
			return nil, errors.Wrapf(doublestar.ErrBadPattern, "%q", arg)
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "expand %q", arg)
		}

		if len(matches) == 0 {
			return nil, errors.Wrapf(ErrNoMatch, "%q", arg)
		}

		for _, m := range matches {
			add(m)
		}
	}

	return paths, nil
}

func isPattern(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}

	return false
}
