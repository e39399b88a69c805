// Package jobs defines the background tasks processed by the worker.
package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeAgingRefresh recomputes stored aging columns for every invoice.
	TypeAgingRefresh = "aging:refresh"
	// TypeDashboardWarm pre-renders dashboard caches after data changes.
	TypeDashboardWarm = "dashboard:warm"
)

// NewAgingRefreshTask builds the aging refresh task.
func NewAgingRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeAgingRefresh, nil)
}

// NewDashboardWarmTask builds the dashboard warmup task.
func NewDashboardWarmTask() *asynq.Task {
	return asynq.NewTask(TypeDashboardWarm, nil)
}

// Enqueuer submits tasks to the Redis-backed queue.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer connects an Enqueuer to Redis.
func NewEnqueuer(redisAddr string) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueDashboardWarm schedules a dashboard cache rebuild.
func (e *Enqueuer) EnqueueDashboardWarm(ctx context.Context) error {
	if _, err := e.client.EnqueueContext(ctx, NewDashboardWarmTask()); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeDashboardWarm, err)
	}
	return nil
}

// EnqueueAgingRefresh schedules a stored-aging recompute.
func (e *Enqueuer) EnqueueAgingRefresh(ctx context.Context) error {
	if _, err := e.client.EnqueueContext(ctx, NewAgingRefreshTask()); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeAgingRefresh, err)
	}
	return nil
}

// Close releases the queue connection.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
