package backend

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgallion1/extractd/internal/extractor"
)

// sourcePath materializes a Source as a file on disk. Byte sources are
// written to a temp file; cleanup removes it and is a no-op for path
// sources.
func sourcePath(src extractor.Source, pattern string) (path string, cleanup func(), err error) {
	if src.Path != "" {
		return src.Path, func() {}, nil
	}
	if len(src.Data) == 0 {
		return "", nil, errors.New("source has neither path nor data")
	}

	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(src.Data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()
	return tmpPath, func() { os.Remove(tmpPath) }, nil
}
