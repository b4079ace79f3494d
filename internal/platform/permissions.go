package platform

import (
	"fmt"
	"os"
	"runtime"
)

// EnsureMode makes path carry exactly the given permission bits and reports
// whether a change was needed. It is a no-op on Windows, which does not
// support Unix-style permission bits.
func EnsureMode(path string, mode os.FileMode) (bool, error) {
	if runtime.GOOS == "windows" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.Mode().Perm() == mode.Perm() {
		return false, nil
	}
	if err := os.Chmod(path, mode.Perm()); err != nil {
		return false, fmt.Errorf("chmod %s: %w", path, err)
	}
	return true, nil
}
