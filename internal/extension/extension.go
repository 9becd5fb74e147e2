// Package extension derives compression backends from file extensions and
// appends canonical extensions to paths.
package extension

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/jarerr"
)

// Of returns the extension of the final component of path, without the dot.
// Leading dots of the component are ignored, so dotfiles such as ".bashrc"
// have no extension. It never touches the filesystem.
func Of(path string) string {
	name := strings.TrimLeft(filepath.Base(path), ".")
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// Infer returns the compression backend claiming the extension of path.
func Infer(reg *compress.Registry, path string) (*compress.Backend, error) {
	ext := Of(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", jarerr.ErrInference, path)
	}
	b, ok := reg.ByExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%w: unknown extension %q in %q", jarerr.ErrInference, ext, path)
	}
	return b, nil
}

// Default returns the canonical extension of b, or "" when b claims none.
func Default(b *compress.Backend) string {
	return b.Extension()
}

// Apply appends b's canonical extension to path unless path already ends in
// it. An existing different extension is kept, never replaced. Paths whose
// final element is empty, "." or ".." are returned unchanged.
func Apply(path string, b *compress.Backend) string {
	ext := Default(b)
	if ext == "" || !named(path) || strings.EqualFold(Of(path), ext) {
		return path
	}
	return path + "." + ext
}

func named(path string) bool {
	if path == "" || os.IsPathSeparator(path[len(path)-1]) {
		return false
	}
	return strings.Trim(filepath.Base(path), ".") != ""
}

// Strip removes a trailing extension claimed by any backend in reg.
func Strip(reg *compress.Registry, path string) string {
	ext := Of(path)
	if ext == "" {
		return path
	}
	if _, ok := reg.ByExtension(ext); !ok {
		return path
	}
	return path[:len(path)-len(ext)-1]
}
