package scheduler_test

import (
	"errors"
	"testing"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/scheduler"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/testutil"
)

// TestDatasetRefreshJob tests the background cache-warming job.
//
// WHY: The job runs unattended; a run must hit the source even when the
// cache is fresh, and a failing source must come back as an error for the
// scheduler to log rather than panic the process.
func TestDatasetRefreshJob(t *testing.T) {
	t.Run("run fetches the dataset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockSheetClient()
		datasetService := testutil.NewTestDatasetService(t, db, client)

		job := scheduler.NewDatasetRefreshJob(datasetService)

		if err := job.Run(); err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if client.FetchCount != 1 {
			t.Errorf("Expected 1 fetch, got %d", client.FetchCount)
		}

		// A second run bypasses the TTL and fetches again.
		if err := job.Run(); err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if client.FetchCount != 2 {
			t.Errorf("Expected 2 fetches, got %d", client.FetchCount)
		}
	})

	t.Run("run surfaces fetch failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockSheetClient()
		client.MockError = errors.New("upstream unavailable")
		datasetService := testutil.NewTestDatasetService(t, db, client)

		job := scheduler.NewDatasetRefreshJob(datasetService)

		if err := job.Run(); err == nil {
			t.Error("Expected an error from a failing source")
		}
	})

	t.Run("job is named for scheduler logs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		datasetService := testutil.NewTestDatasetService(t, db, testutil.NewMockSheetClient())

		job := scheduler.NewDatasetRefreshJob(datasetService)
		if job.Name() == "" {
			t.Error("Expected a non-empty job name")
		}
	})
}
