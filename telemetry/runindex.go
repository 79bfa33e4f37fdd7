package telemetry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// RunIndexer hands out monotonically increasing run numbers.
type RunIndexer interface {
	NextRun() (int, error)
}

// FileRunIndex keeps the run counter in a plain text file.
type FileRunIndex struct {
	path string
}

// NewFileRunIndex creates an index backed by path. A missing file starts at 0.
func NewFileRunIndex(path string) *FileRunIndex {
	return &FileRunIndex{path: path}
}

// NextRun returns the stored index and persists index+1.
func (f *FileRunIndex) NextRun() (int, error) {
	index := 0
	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return 0, fmt.Errorf("reading run index: %w", err)
	default:
		if s := strings.TrimSpace(string(data)); s != "" {
			index, err = strconv.Atoi(s)
			if err != nil {
				return 0, fmt.Errorf("parsing run index %q: %w", s, err)
			}
		}
	}

	if err := os.WriteFile(f.path, []byte(strconv.Itoa(index+1)), 0644); err != nil {
		return 0, fmt.Errorf("writing run index: %w", err)
	}
	return index, nil
}
