package jobs

import (
	"context"
	"fmt"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"
)

const defaultJobTimeout = 5 * time.Minute

// Job is a named unit of scheduled work.
type Job struct {
	Name string
	Spec string // cron spec with seconds field
	Run  func()
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	reservations service.Reconciler
	config       *config.Config
	timeout      time.Duration
}

func NewJobRunner(reservations service.Reconciler, cfg *config.Config) *JobRunner {
	return &JobRunner{
		reservations: reservations,
		config:       cfg,
		timeout:      defaultJobTimeout,
	}
}

// Jobs lists every job with its schedule. Names are the ones accepted by
// the cronjob binary's -run-once flag.
func (jr *JobRunner) Jobs() []Job {
	return []Job{
		{
			Name: "reconcile-expired-reservations",
			Spec: jr.config.Scheduler.ReconcileExpiredReservations,
			Run:  jr.ReconcileExpiredReservations,
		},
	}
}

// RunOnce runs the named job, or every job for "all".
func (jr *JobRunner) RunOnce(name string) error {
	for _, job := range jr.Jobs() {
		if name == "all" || job.Name == name {
			job.Run()
			if name != "all" {
				return nil
			}
		}
	}
	if name == "all" {
		return nil
	}
	return fmt.Errorf("unknown job %q", name)
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	started := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "duration", time.Since(started))
}
