package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"task-board/internal/model"
)

// FileStore keeps the document in a single JSON file. Writes overwrite the
// file in place.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Name() string { return "file" }

// Path returns the location of the JSON document.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Read(ctx context.Context) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	bs, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Document{}, ErrNotFound
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("read document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(bs, &doc); err != nil {
		return model.Document{}, fmt.Errorf("decode document %s: %w", s.path, err)
	}
	doc.Normalize()
	return doc, nil
}

func (s *FileStore) Write(ctx context.Context, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureParentDir(s.path); err != nil {
		return err
	}
	doc.Normalize()
	bs, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(s.path, bs, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
