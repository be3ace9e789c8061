package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

// datasetDir resolves the on-disk directory dedicated to one dataset.
func datasetDir(dataDir, datasetName string) string {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	return filepath.Join(dataDir, datasetName)
}

// missingFileError reports the first expected dataset file absent from disk.
// It is the cache-miss signal that triggers a fresh acquisition.
type missingFileError struct {
	Path string
}

func (e *missingFileError) Error() string {
	return fmt.Sprintf("no such file: %s", e.Path)
}

// locateDataset returns the absolute on-disk paths of a dataset's files.
// It never downloads or creates anything; if any expected file is missing
// the whole lookup fails naming the first one.
func locateDataset(datasetName string, fileNames []string, dataDir string) ([]string, error) {
	dir := datasetDir(dataDir, datasetName)
	paths := make([]string, 0, len(fileNames))
	for _, fileName := range fileNames {
		fullName := filepath.Join(dir, fileName)
		if _, err := os.Stat(fullName); err != nil {
			return nil, &missingFileError{Path: fullName}
		}
		paths = append(paths, fullName)
	}
	return paths, nil
}
