package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/service"
)

// refreshTimeout bounds one background fetch of the holdings dataset.
const refreshTimeout = 60 * time.Second

// DatasetRefreshJob refetches the holdings dataset in the background so the
// cache stays warm. When a refresh fails the previously cached table keeps
// being served until its TTL expires; the failure is logged and not retried
// before the next scheduled run.
type DatasetRefreshJob struct {
	datasetService *service.DatasetService
}

// NewDatasetRefreshJob creates a new DatasetRefreshJob
func NewDatasetRefreshJob(datasetService *service.DatasetService) *DatasetRefreshJob {
	return &DatasetRefreshJob{datasetService: datasetService}
}

// Name returns the job name used in scheduler logs
func (j *DatasetRefreshJob) Name() string {
	return "dataset-refresh"
}

// Run refreshes the dataset cache once
func (j *DatasetRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result, err := j.datasetService.Refresh(ctx)
	if err != nil {
		return err
	}

	log.Printf("Refreshed holdings dataset: %d rows, %d clients", result.RowCount, result.ClientCount)
	return nil
}
