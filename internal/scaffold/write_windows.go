//go:build windows

package scaffold

import "os"

// renameio does not support Windows; fall back to a plain write.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
