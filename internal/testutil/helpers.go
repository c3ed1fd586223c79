package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/dataset"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/sheets"
)

// TestSourceRef is the source reference used by test fixtures.
var TestSourceRef = sheets.SourceRef{
	SpreadsheetURL: "https://docs.google.com/spreadsheets/d/test-sheet-id/edit?usp=sharing",
	WorksheetGID:   "0",
}

// NewTestLoader creates a dataset loader over the given mock client with a
// long TTL and no snapshot recording.
func NewTestLoader(t *testing.T, client sheets.Client) *dataset.Loader {
	t.Helper()
	return dataset.NewLoader(client, time.Hour, nil)
}

// NewTestDatasetService wires a DatasetService over a mock sheet client and
// an in-memory database. The source configuration defaults to TestSourceRef.
func NewTestDatasetService(t *testing.T, db *sql.DB, client sheets.Client) *service.DatasetService {
	t.Helper()

	snapshotRepo := repository.NewSnapshotRepository(db)
	loader := dataset.NewLoader(client, time.Hour, snapshotRepo)
	sourceConfigService := NewTestSourceConfigService(t, db, loader.Invalidate)

	return service.NewDatasetService(loader, sourceConfigService, snapshotRepo)
}

// NewTestSystemService creates a SystemService over an in-memory database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// NewTestSourceConfigService creates a SourceConfigService over an in-memory
// database with TestSourceRef as the environment default. onChange may be nil.
func NewTestSourceConfigService(t *testing.T, db *sql.DB, onChange func()) *service.SourceConfigService {
	t.Helper()

	return service.NewSourceConfigService(
		repository.NewSourceConfigRepository(db),
		config.SourceConfig{
			SpreadsheetURL: TestSourceRef.SpreadsheetURL,
			WorksheetGID:   TestSourceRef.WorksheetGID,
		},
		onChange,
	)
}
