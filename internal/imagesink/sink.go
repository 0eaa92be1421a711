// Package imagesink writes binary cell payloads to uniquely named files
// under a dedicated images directory.
package imagesink

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"pgexport/constants"
)

// Sink saves image payloads as images/<column>_<token>.<ext>. The token is a
// random UUID, so names never collide across concurrent or re-entered runs;
// a counter would restart after an interrupted run and overwrite.
type Sink struct {
	dir    string
	logger *slog.Logger
}

func NewSink(dir string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{dir: dir, logger: logger}
}

// Save writes the payload to a fresh file and returns its path, which
// becomes the cell's exported value. Existing files are never touched.
func (s *Sink) Save(data []byte, column string, format constants.ImageFormat) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.%s", column, uuid.NewString(), format)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	s.logger.Debug("image saved", "path", path, "bytes", len(data))
	return path, nil
}
