package workers

import (
	"context"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/config"
	"skyrelief/dispatch/internal/metrics"

	"golang.org/x/sync/errgroup"
)

const monitorInterval = 30 * time.Second

type WorkersContainer struct {
	History    *HistoryWorker
	Monitor    *QueueMonitor
	numWorkers int
}

func InitWorkers(
	queue common.EventQueue,
	recorder OutcomeRecorder,
	reg *metrics.MetricsRegistry,
	cfg config.EventsConfig,
) *WorkersContainer {
	c := &WorkersContainer{
		History:    NewHistoryWorker("history", queue, recorder, reg, cfg.BlockTimeout),
		numWorkers: cfg.HistoryWorker,
	}

	if br, ok := queue.(BacklogReporter); ok {
		c.Monitor = NewQueueMonitor(br, reg)
	}

	return c
}

// Run blocks until ctx is cancelled and every worker has returned.
func (c *WorkersContainer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.History.Start(ctx, c.numWorkers)
	})

	if c.Monitor != nil {
		g.Go(func() error {
			c.Monitor.Start(ctx, monitorInterval)
			return nil
		})
	}

	return g.Wait()
}
