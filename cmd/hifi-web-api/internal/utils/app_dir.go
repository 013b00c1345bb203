package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureConfigDir creates the directory holding the config file, so that a
// first run has a place to drop the config into and the file watcher has an
// existing parent to observe.
func EnsureConfigDir(configPath string) error {
	dirPath := filepath.Dir(strings.TrimSpace(configPath))
	if dirPath == "" || dirPath == "." {
		return nil
	}

	return os.MkdirAll(dirPath, 0750)
}
