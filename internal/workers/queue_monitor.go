package workers

import (
	"context"
	"time"

	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/metrics"
)

// BacklogReporter is implemented by queues that can report how many events
// are still waiting.
type BacklogReporter interface {
	Backlog(ctx context.Context) (int64, error)
}

// QueueMonitor periodically publishes the event backlog as a gauge.
type QueueMonitor struct {
	queue   BacklogReporter
	metrics *metrics.MetricsRegistry
}

func NewQueueMonitor(queue BacklogReporter, reg *metrics.MetricsRegistry) *QueueMonitor {
	return &QueueMonitor{queue: queue, metrics: reg}
}

func (m *QueueMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting queue monitoring", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	m.check(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Queue monitor shutting down")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *QueueMonitor) check(ctx context.Context) {
	n, err := m.queue.Backlog(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logging.Warn("Failed to read event backlog", "error", err)
		}
		return
	}

	if m.metrics != nil {
		m.metrics.MissionEventBacklog.Set(float64(n))
	}
	if n > 0 {
		logging.Debug("Mission event backlog", "events", n)
	}
}
