package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aenzbi-labs/aenzbi/internal/layout"
	"github.com/aenzbi-labs/aenzbi/internal/platform"
)

// DirMode is used for every directory the scaffolder creates.
const DirMode os.FileMode = 0755

// Writer materializes directories and files below Root. Paths given to it
// are relative to Root.
type Writer struct {
	Root string

	// Out receives one progress line per directory or file. Nil discards.
	Out io.Writer

	// DryRun reports what would be done without touching the filesystem.
	DryRun bool
}

// Result lists the paths a Writer call handled, relative to Root.
type Result struct {
	Dirs  []string
	Files []string
}

// New returns a Writer anchored at root.
func New(root string, out io.Writer) *Writer {
	return &Writer{Root: root, Out: out}
}

// EnsureDirs creates each directory with all missing parents. Existing
// directories are not an error. The first failure aborts and names the path.
func (w *Writer) EnsureDirs(dirs []string) (*Result, error) {
	result := &Result{}
	for _, dir := range dirs {
		if err := w.ensureDir(dir); err != nil {
			return result, err
		}
		w.printf("Created directory: %s\n", filepath.ToSlash(dir))
		result.Dirs = append(result.Dirs, dir)
	}
	return result, nil
}

// WriteFiles writes each file, replacing existing content. Parent
// directories are created as needed.
func (w *Writer) WriteFiles(files []layout.PlannedFile) (*Result, error) {
	result := &Result{}
	for _, f := range files {
		if err := w.writeFile(f); err != nil {
			return result, err
		}
		w.printf("Wrote file: %s\n", filepath.ToSlash(f.Path))
		result.Files = append(result.Files, f.Path)
	}
	return result, nil
}

// EnsureDir creates one directory without printing progress.
func (w *Writer) EnsureDir(rel string) error {
	return w.ensureDir(rel)
}

func (w *Writer) ensureDir(rel string) error {
	if w.DryRun {
		return nil
	}
	abs := filepath.Join(w.Root, rel)
	info, err := os.Stat(abs)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("creating directory %s: %s exists and is not a directory", rel, abs)
		}
		return nil
	}
	if err := os.MkdirAll(abs, DirMode); err != nil {
		return fmt.Errorf("creating directory %s: %w", rel, err)
	}
	return nil
}

func (w *Writer) writeFile(f layout.PlannedFile) error {
	if w.DryRun {
		return nil
	}
	if err := w.ensureDir(filepath.Dir(f.Path)); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}

	abs := filepath.Join(w.Root, f.Path)
	mode := f.Mode
	if mode == 0 {
		mode = layout.DefaultFileMode
	}
	if err := writeAtomic(abs, f.Content, mode); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	if _, err := platform.EnsureMode(abs, mode); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", f.Path, err)
	}
	return nil
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.Out == nil {
		return
	}
	if w.DryRun {
		format = "[dry-run] " + format
	}
	fmt.Fprintf(w.Out, format, args...)
}
