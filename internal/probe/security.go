package probe

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/nativeplug/internal/xdg"
)

// Sentinel errors for path validation.
var (
	// ErrPathRequired is returned for an empty library path.
	ErrPathRequired = errors.New("path is required")

	// ErrPathTraversal is returned when path traversal patterns are detected.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrPathNotAllowed is returned when the library path is not in an allowed directory.
	ErrPathNotAllowed = errors.New("library path not in allowed directory")

	// ErrInvalidExtension is returned when the library file extension is not allowed.
	ErrInvalidExtension = errors.New("invalid library file extension")
)

// pathTraversalPattern matches common path traversal attempts.
var pathTraversalPattern = regexp.MustCompile(`(?:^|[/\\])\.\.(?:[/\\]|$)`)

// ValidatePath checks a library path before it is handed to the loader:
//   - Path traversal attempts (../)
//   - Path containment within allowed directories, after symlink resolution
//
// With no allowed directories, bare library names such as "libm.so.6" are
// accepted and left to the platform loader's search path. With allowed
// directories they are rejected, since the loader would not look for them
// in those directories.
func ValidatePath(path string, allowedDirs []string) error {
	if path == "" {
		return ErrPathRequired
	}

	if len(allowedDirs) > 0 && isBareName(path) {
		return errors.Wrapf(ErrPathNotAllowed,
			"library name %s is resolved through the loader search path", path)
	}

	resolvedPath, err := resolvePath(path)
	if err != nil {
		return err
	}

	if len(allowedDirs) == 0 {
		return nil
	}

	if !isPathInAllowedDirs(resolvedPath, allowedDirs) {
		return errors.Wrapf(ErrPathNotAllowed, "path %s not in allowed directories", path)
	}

	return nil
}

// isBareName reports whether the loader would look path up on its search
// path instead of opening it directly.
func isBareName(path string) bool {
	if strings.HasPrefix(path, "~") {
		return false
	}

	return !strings.ContainsAny(path, "/"+string(filepath.Separator))
}

// resolvePath expands, validates, and resolves a path to its canonical form.
func resolvePath(path string) (string, error) {
	expandedPath, err := xdg.ExpandPath(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to expand path")
	}

	if pathTraversalPattern.MatchString(expandedPath) {
		return "", errors.Wrapf(ErrPathTraversal, "path contains traversal pattern: %s", path)
	}

	resolvedPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve absolute path")
	}

	return evalSymlinksIfExists(resolvedPath)
}

// evalSymlinksIfExists resolves symlinks for the path. If the file doesn't
// exist, it resolves symlinks on the parent directory instead.
func evalSymlinksIfExists(path string) (string, error) {
	if _, statErr := os.Stat(path); statErr == nil {
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", errors.Wrap(err, "failed to evaluate symlinks")
		}

		return realPath, nil
	}

	realParentDir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return path, nil //nolint:nilerr // parent missing too; keep the original
	}

	return filepath.Join(realParentDir, filepath.Base(path)), nil
}

func isPathInAllowedDirs(resolvedPath string, allowedDirs []string) bool {
	for _, allowedDir := range allowedDirs {
		if isPathUnderDir(resolvedPath, allowedDir) {
			return true
		}
	}

	return false
}

func isPathUnderDir(resolvedPath, dir string) bool {
	expandedDir, err := xdg.ExpandPath(dir)
	if err != nil {
		return false
	}

	absDir, err := filepath.Abs(expandedDir)
	if err != nil {
		return false
	}

	if _, statErr := os.Stat(absDir); statErr == nil {
		if realDir, evalErr := filepath.EvalSymlinks(absDir); evalErr == nil {
			absDir = realDir
		}
	}

	if resolvedPath == absDir {
		return true
	}

	normalizedDir := absDir
	if !strings.HasSuffix(normalizedDir, string(filepath.Separator)) {
		normalizedDir += string(filepath.Separator)
	}

	return strings.HasPrefix(resolvedPath, normalizedDir)
}

// ValidateExtension checks if the file has an allowed extension. Versioned
// sonames match their base extension, so "libz.so.1" passes for ".so".
func ValidateExtension(path string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}

	base := strings.ToLower(filepath.Base(path))

	for _, ext := range allowed {
		ext = strings.ToLower(ext)

		if strings.HasSuffix(base, ext) || strings.Contains(base, ext+".") {
			return nil
		}
	}

	if filepath.Ext(base) == "" {
		return errors.Wrap(ErrInvalidExtension, "file has no extension")
	}

	return errors.Wrapf(ErrInvalidExtension,
		"extension %q not in allowed list %v", filepath.Ext(base), allowed)
}
