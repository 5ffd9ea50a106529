package path

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks up from startDir until it finds an entry named
// targetName, returning the directory that contains it. Used to locate
// the repo-level .env and migrations directory from wherever a test or
// binary happens to run.
func FindRoot(startDir, targetName string, isDir bool) (string, error) {
	dir := startDir

	for {
		info, err := os.Stat(filepath.Join(dir, targetName))
		if err == nil && info.IsDir() == isDir {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find %s starting from %s", targetName, startDir)
		}
		dir = parent
	}
}
