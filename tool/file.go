package tool

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) when it does not exist yet.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	DefaultLogger.Infof("Created directory %s", dir)
	return nil
}

// IsPlainFileName reports whether name is a bare file name without any path component.
func IsPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && filepath.IsLocal(name)
}
