package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/siteseer/siteseer/internal/model"
)

// SaveClassification records the outcome of one classification cycle.
func (s *SQLiteStorage) SaveClassification(ctx context.Context, record *model.ClassificationRecord) error {
	if record == nil {
		return fmt.Errorf("classification record must not be nil")
	}
	if record.ClassifiedAt.IsZero() {
		record.ClassifiedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO classifications (classified_at, image_path, top_class, display_confidence, outcome, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ClassifiedAt, record.ImagePath, record.TopClass,
		record.DisplayConfidence, string(record.Outcome), record.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read classification id: %w", err)
	}
	record.ID = id
	return nil
}

// ListClassifications returns the most recent classification records, newest
// first, up to limit.
func (s *SQLiteStorage) ListClassifications(ctx context.Context, limit int) ([]model.ClassificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, classified_at, image_path, top_class, display_confidence, outcome, duration_ms
		 FROM classifications ORDER BY classified_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ClassificationRecord
	for rows.Next() {
		var record model.ClassificationRecord
		var outcome string
		var durationMS int64
		if err := rows.Scan(&record.ID, &record.ClassifiedAt, &record.ImagePath,
			&record.TopClass, &record.DisplayConfidence, &outcome, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		record.Outcome = model.CycleOutcome(outcome)
		record.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, record)
	}
	return records, rows.Err()
}
