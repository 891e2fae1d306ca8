package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-board/internal/model"
)

const documentRowID = 1

// documentRow holds the serialized board document. The table only ever
// contains one row.
type documentRow struct {
	ID        uint `gorm:"primaryKey"`
	Body      string
	UpdatedAt time.Time
}

func (documentRow) TableName() string { return "documents" }

// SQLiteStore keeps the document as a single JSON row in SQLite.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Read(ctx context.Context) (model.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).First(&row, documentRowID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Document{}, ErrNotFound
	case err != nil:
		return model.Document{}, fmt.Errorf("find document: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(row.Body), &doc); err != nil {
		return model.Document{}, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

func (s *SQLiteStore) Write(ctx context.Context, doc model.Document) error {
	doc.Normalize()
	bs, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	row := documentRow{ID: documentRowID, Body: string(bs)}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
