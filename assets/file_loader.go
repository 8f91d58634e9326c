package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"debris-sandbox/scene"
)

// ErrNotFound is returned when no file exists for an asset name.
var ErrNotFound = errors.New("asset not found")

// DefaultExtensions is the lookup order FileLoader uses when Extensions is empty.
var DefaultExtensions = []string{".obj", ".glb", ".gltf"}

// FileLoader resolves an asset name to <Dir>/<name><ext>, trying each
// extension in order, and decodes the first file that exists.
type FileLoader struct {
	Dir        string
	Extensions []string
}

func (l FileLoader) Load(name string) (*scene.TriangleMesh, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return scene.LoadOBJ(path, name)
	case ".glb", ".gltf":
		return scene.LoadGLTF(path, name)
	default:
		return nil, fmt.Errorf("%s: unsupported mesh format", path)
	}
}

// Resolve returns the path Load would decode for name.
func (l FileLoader) Resolve(name string) (string, error) {
	exts := l.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, ext := range exts {
		path := filepath.Join(l.Dir, name+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%s in %s: %w", name, l.Dir, ErrNotFound)
}
