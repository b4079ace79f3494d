package layout

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

//go:embed default
var defaultFS embed.FS

// DefaultManifest is the name of the embedded manifest inside the default FS.
const DefaultManifest = "layout.yaml"

// Default returns the embedded aenzbi-business layout.
func Default() (*Layout, error) {
	sub, err := fs.Sub(defaultFS, "default")
	if err != nil {
		return nil, fmt.Errorf("opening embedded layout: %w", err)
	}
	data, err := fs.ReadFile(sub, DefaultManifest)
	if err != nil {
		return nil, fmt.Errorf("reading embedded layout: %w", err)
	}
	return Parse(data, sub)
}

// DefaultBytes returns the raw embedded manifest.
func DefaultBytes() ([]byte, error) {
	return defaultFS.ReadFile("default/" + DefaultManifest)
}

// Load reads a manifest from disk. Template references are resolved relative
// to the directory containing the manifest.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	l, err := Parse(data, os.DirFS(filepath.Dir(path)))
	if err != nil {
		return nil, fmt.Errorf("loading layout %s: %w", path, err)
	}
	return l, nil
}

// LoadOrDefault loads path, or the embedded layout when path is empty.
func LoadOrDefault(path string) (*Layout, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse validates manifest YAML and decodes it. templates is the file system
// template references are read from; it may be nil when no file uses one.
func Parse(data []byte, templates fs.FS) (*Layout, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	l.templates = templates
	return &l, nil
}

// Marshal renders the layout back to YAML.
func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}
