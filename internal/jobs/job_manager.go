package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	purgeJob *PurgeDeletedOrdersJob
}

// PurgeConfig schedules the purge job. Schedule is a standard five-field cron
// expression.
type PurgeConfig struct {
	Schedule  string
	Retention time.Duration
}

// NewJobManager builds the jobs without starting them.
//
// Example:
//
//	jm := jobs.NewJobManager(handler, jobs.PurgeConfig{Schedule: "0 3 * * *", Retention: 30 * 24 * time.Hour}, logger)
//	if err := jm.StartAll(); err != nil {
//		return err
//	}
//	defer jm.StopAll()
func NewJobManager(purgeHandler purgeHandler, purge PurgeConfig, logger *slog.Logger) *JobManager {
	return &JobManager{
		purgeJob: NewPurgeDeletedOrdersJob(purgeHandler, purge.Schedule, purge.Retention, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.purgeJob.Start(); err != nil {
		return fmt.Errorf("failed to start purge job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	jm.purgeJob.Stop()
}
