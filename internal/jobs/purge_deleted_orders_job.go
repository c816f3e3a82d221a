package jobs

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeBatchSize bounds how many orders one run removes.
const DefaultPurgeBatchSize = 500

type purgeHandler interface {
	Handle(ctx context.Context, cmd commands.PurgeDeletedOrdersCommand) (int, error)
}

// PurgeDeletedOrdersJob hard-deletes orders that have been soft-deleted for
// longer than the retention period.
type PurgeDeletedOrdersJob struct {
	handler   purgeHandler
	schedule  string
	retention time.Duration
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewPurgeDeletedOrdersJob removes at most DefaultPurgeBatchSize orders per run
// and gives each run five minutes.
func NewPurgeDeletedOrdersJob(
	handler purgeHandler,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) *PurgeDeletedOrdersJob {
	return &PurgeDeletedOrdersJob{
		handler:   handler,
		schedule:  schedule,
		retention: retention,
		batchSize: DefaultPurgeBatchSize,
		timeout:   5 * time.Minute,
		cron:      cron.New(),
		logger:    logger.With("component", "purge_deleted_orders_job"),
	}
}

// Start validates the schedule and begins running the job.
func (j *PurgeDeletedOrdersJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Purge job started",
		"schedule", j.schedule, "retention", j.retention.String())
	return nil
}

// Run purges batches until no expired order is left.
func (j *PurgeDeletedOrdersJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cmd, err := commands.NewPurgeDeletedOrdersCommand(j.retention, j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Purge job misconfigured", "error", err)
		return
	}

	total := 0
	for {
		purged, handleErr := j.handler.Handle(ctx, cmd)
		total += purged
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Purge job failed", "error", handleErr, "purged", total)
			return
		}
		if purged < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.InfoContext(ctx, "Purged deleted orders", "count", total)
	}
}

// Stop waits for a running purge to finish.
func (j *PurgeDeletedOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Purge job stopped")
}
