package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"task-board/internal/model"
)

// ErrNotFound is returned by Read when nothing has been persisted yet.
var ErrNotFound = errors.New("document not found")

// DocumentStore persists the board document as a whole. Every Write
// replaces the previous document entirely.
type DocumentStore interface {
	Read(ctx context.Context) (model.Document, error)
	Write(ctx context.Context, doc model.Document) error
	Name() string
}

// ensureParentDir creates the directory holding path if needed.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", dir, err)
	}
	return nil
}
