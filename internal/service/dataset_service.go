package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/dataset"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/repository"
)

// DatasetService ties the dataset loader to the active source configuration.
// It is the single entry point handlers use to obtain the holdings table; the
// loader's TTL cache makes repeated calls cheap.
type DatasetService struct {
	loader       *dataset.Loader
	sourceConfig *SourceConfigService
	snapshotRepo *repository.SnapshotRepository
}

// NewDatasetService creates a new DatasetService with the provided loader and
// dependencies.
func NewDatasetService(
	loader *dataset.Loader,
	sourceConfig *SourceConfigService,
	snapshotRepo *repository.SnapshotRepository,
) *DatasetService {
	return &DatasetService{
		loader:       loader,
		sourceConfig: sourceConfig,
		snapshotRepo: snapshotRepo,
	}
}

// GetTable returns the current holdings table, fetching it from the source
// when the cache is cold or expired. The returned table is a private copy.
func (s *DatasetService) GetTable(ctx context.Context) (model.HoldingsTable, error) {
	ref, err := s.sourceConfig.ActiveRef()
	if err != nil {
		return nil, err
	}
	return s.loader.Load(ctx, ref)
}

// RefreshResult describes the outcome of a forced dataset refresh.
type RefreshResult struct {
	SourceRef   string `json:"sourceRef"`
	RowCount    int    `json:"rowCount"`
	ClientCount int    `json:"clientCount"`
}

// Refresh forces a refetch of the holdings table, bypassing the TTL. The
// fetched table replaces the cache entry on success; on failure the previous
// entry is left untouched.
func (s *DatasetService) Refresh(ctx context.Context) (RefreshResult, error) {
	ref, err := s.sourceConfig.ActiveRef()
	if err != nil {
		return RefreshResult{}, err
	}

	table, err := s.loader.Refresh(ctx, ref)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("dataset refresh failed: %w", err)
	}

	clients := make(map[string]struct{}, len(table))
	for _, record := range table {
		clients[record.ClientName] = struct{}{}
	}

	return RefreshResult{
		SourceRef:   ref.Key(),
		RowCount:    len(table),
		ClientCount: len(clients),
	}, nil
}

// ListSnapshots returns the most recent dataset fetch audit records, newest
// first.
func (s *DatasetService) ListSnapshots(limit int) ([]model.DatasetSnapshot, error) {
	return s.snapshotRepo.ListSnapshots(limit)
}
