package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrWrite wraps filesystem failures while saving a report.
var ErrWrite = errors.New("failed to write report")

// Saver writes report text to plain-text files under a single directory.
// Each session maps to one file; saving again overwrites it.
type Saver struct {
	dir string
}

// NewSaver creates a Saver rooted at dir. The directory is created lazily on
// first save.
func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Save writes text verbatim to the session's report file, truncating any
// prior contents, and returns the file path.
func (s *Saver) Save(id uuid.UUID, text string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("news_report_%s.txt", id))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return path, nil
}
