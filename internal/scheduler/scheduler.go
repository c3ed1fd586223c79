// Package scheduler runs background jobs on cron schedules. The dashboard
// uses it for one job: keeping the holdings dataset cache warm so user
// requests rarely pay the fetch latency.
package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled background job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
}

// New creates a new scheduler
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
	}
}

// AddJob registers a job with a cron schedule. Schedules accept the standard
// five-field cron syntax plus descriptors like "@hourly" and "@every 15m".
// Job failures are logged, never fatal; the next run proceeds normally.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			log.Printf("scheduled job %s failed: %v", job.Name(), err)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("Registered job %s with schedule %q", job.Name(), schedule)
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler, waiting for any running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
