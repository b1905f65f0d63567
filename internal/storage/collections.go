package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/siteseer/siteseer/internal/model"
)

// SaveCollection records one labeled photo upload.
func (s *SQLiteStorage) SaveCollection(ctx context.Context, record *model.CollectionRecord) error {
	if record == nil {
		return fmt.Errorf("collection record must not be nil")
	}
	if record.CollectedAt.IsZero() {
		record.CollectedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (collected_at, site, user_id, object_key, points_awarded)
		 VALUES (?, ?, ?, ?, ?)`,
		record.CollectedAt, record.Site, record.UserID, record.ObjectKey, record.PointsAwarded)
	if err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read collection id: %w", err)
	}
	record.ID = id
	return nil
}

// ListCollections returns the most recent collection records, newest first,
// up to limit.
func (s *SQLiteStorage) ListCollections(ctx context.Context, limit int) ([]model.CollectionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, collected_at, site, user_id, object_key, points_awarded
		 FROM collections ORDER BY collected_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.CollectionRecord
	for rows.Next() {
		var record model.CollectionRecord
		if err := rows.Scan(&record.ID, &record.CollectedAt, &record.Site,
			&record.UserID, &record.ObjectKey, &record.PointsAwarded); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
