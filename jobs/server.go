package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// NewServer builds the asynq worker with all task routes registered.
func NewServer(redisAddr string, handlers *Handlers, logger *slog.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 4,
			Queues:      map[string]int{"default": 1},
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAgingRefresh, handlers.HandleAgingRefresh)
	mux.HandleFunc(TypeDashboardWarm, handlers.HandleDashboardWarm)
	return srv, mux
}

// NewScheduler registers the recurring jobs. Aging is refreshed nightly so
// stored buckets never drift more than a day from the recompute-on-read view.
func NewScheduler(redisAddr string, logger *slog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: redisAddr}, nil)
	if _, err := scheduler.Register("0 2 * * *", NewAgingRefreshTask()); err != nil {
		return nil, err
	}
	logger.Info("scheduler configured", "jobs", 1)
	return scheduler, nil
}
