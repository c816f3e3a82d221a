// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and managed through
// JobManager:
//
//	jobManager := jobs.NewJobManager(purgeHandler, jobs.PurgeConfig{
//		Schedule:  "@hourly",
//		Retention: 30 * 24 * time.Hour,
//	}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// PurgeDeletedOrdersJob hard-deletes orders soft-deleted longer ago than the
// retention period, in batches, until none are left. Failures are logged and
// retried on the next scheduled run.
package jobs
