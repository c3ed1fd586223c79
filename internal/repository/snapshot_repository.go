package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the dataset_snapshot
// table. Each row is an audit record of one successful dataset fetch.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// RecordSnapshot inserts a snapshot audit record. When the snapshot carries no
// ID a new UUID is assigned.
func (r *SnapshotRepository) RecordSnapshot(snapshot model.DatasetSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}

	query := `
          INSERT INTO dataset_snapshot (id, source_ref, row_count, client_count, fetched_at)
          VALUES (?, ?, ?, ?, ?)
      `

	_, err := r.db.Exec(query,
		snapshot.ID,
		snapshot.SourceRef,
		snapshot.RowCount,
		snapshot.ClientCount,
		snapshot.FetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset snapshot: %w", err)
	}

	return nil
}

// ListSnapshots retrieves the most recent snapshot records, newest first.
// Returns an empty slice when no snapshots have been recorded.
func (r *SnapshotRepository) ListSnapshots(limit int) ([]model.DatasetSnapshot, error) {
	query := `
          SELECT id, source_ref, row_count, client_count, fetched_at
          FROM dataset_snapshot
          ORDER BY fetched_at DESC, id
          LIMIT ?
      `

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.DatasetSnapshot{}

	for rows.Next() {
		var s model.DatasetSnapshot
		var fetchedAt string

		err := rows.Scan(
			&s.ID,
			&s.SourceRef,
			&s.RowCount,
			&s.ClientCount,
			&fetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset_snapshot row: %w", err)
		}

		s.FetchedAt, err = ParseTime(fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
		}

		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dataset_snapshot table: %w", err)
	}

	return snapshots, nil
}

// GetLatestSnapshot returns the most recently recorded snapshot.
// Returns apperrors.ErrSnapshotNotFound when no snapshot exists.
func (r *SnapshotRepository) GetLatestSnapshot() (model.DatasetSnapshot, error) {
	snapshots, err := r.ListSnapshots(1)
	if err != nil {
		return model.DatasetSnapshot{}, err
	}
	if len(snapshots) == 0 {
		return model.DatasetSnapshot{}, apperrors.ErrSnapshotNotFound
	}
	return snapshots[0], nil
}
