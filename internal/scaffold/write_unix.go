//go:build !windows

package scaffold

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeAtomic replaces path via a temp file, fsync and rename.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(path, data, perm)
}
