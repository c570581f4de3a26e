package scheduler

import (
	"fmt"
	"time"

	"carrental-backend/internal/jobs"
	"carrental-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler registers every job of jobRunner. A job with an invalid cron
// spec is an error; jobs never overlap with their own previous run.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	for _, job := range s.jobs.Jobs() {
		if _, err := s.cron.AddFunc(job.Spec, job.Run); err != nil {
			logger.Error("Failed to register job", "job", job.Name, "spec", job.Spec, "error", err)
			return fmt.Errorf("register job %s: %w", job.Name, err)
		}
		logger.Info("Registered job", "job", job.Name, "spec", job.Spec)
	}
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// NextRun reports when the first registered job fires next.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return s.cron.Entry(entries[0].ID).Next
}

func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
