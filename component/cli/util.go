package cli

import (
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"
)

func setupMaxProcs() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
}

func resolvePath(path string) string {
	if !filepath.IsAbs(path) {
		currentDir, _ := os.Getwd()
		return filepath.Join(currentDir, path)
	}
	return path
}
