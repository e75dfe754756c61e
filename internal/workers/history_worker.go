package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/metrics"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

const (
	errorBackoff = time.Second

	defaultClaimInterval = 2 * time.Minute
	defaultStaleAfter    = 5 * time.Minute
)

// OutcomeRecorder stores the automatic history record of a finished flight.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, missionID, droneID uint, status constants.MissionStatus, at time.Time) (*gormModels.MissionHistoryRecord, error)
}

// StaleClaimer is implemented by queues that keep unacked events and can
// hand them to another consumer.
type StaleClaimer interface {
	ClaimStale(ctx context.Context, consumer string, minIdle time.Duration) ([]*common.MissionEvent, []string, error)
}

// HistoryWorker turns mission events into history records.
type HistoryWorker struct {
	workerID string
	queue    common.EventQueue
	recorder OutcomeRecorder
	metrics  *metrics.MetricsRegistry
	block    time.Duration

	claimInterval time.Duration
	staleAfter    time.Duration
}

func NewHistoryWorker(
	workerID string,
	queue common.EventQueue,
	recorder OutcomeRecorder,
	reg *metrics.MetricsRegistry,
	block time.Duration,
) *HistoryWorker {
	if block <= 0 {
		block = 5 * time.Second
	}
	return &HistoryWorker{
		workerID: workerID,
		queue:    queue,
		recorder: recorder,
		metrics:  reg,
		block:    block,

		claimInterval: defaultClaimInterval,
		staleAfter:    defaultStaleAfter,
	}
}

// Start runs numWorkers consumers until ctx is cancelled or the queue is
// closed. Queues that support it also get a claimer that picks up events
// left unacked by a dead consumer.
func (w *HistoryWorker) Start(ctx context.Context, numWorkers int) error {
	logging.Info("Starting history workers", "count", numWorkers, "worker_id", w.workerID)

	g, ctx := errgroup.WithContext(ctx)

	var consumers sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		name := fmt.Sprintf("%s-%d", w.workerID, i)
		consumers.Add(1)
		g.Go(func() error {
			defer consumers.Done()
			w.processQueue(ctx, name)
			return nil
		})
	}

	if claimer, ok := w.queue.(StaleClaimer); ok {
		claimCtx, stop := context.WithCancel(ctx)
		g.Go(func() error {
			w.claimStaleMessages(claimCtx, claimer)
			return nil
		})
		// Stop the claimer once every consumer has returned.
		g.Go(func() error {
			consumers.Wait()
			stop()
			return nil
		})
	}

	err := g.Wait()
	logging.Info("All history workers stopped", "worker_id", w.workerID)
	return err
}

func (w *HistoryWorker) processQueue(ctx context.Context, name string) {
	processed, failed := 0, 0

	for {
		if ctx.Err() != nil {
			logging.Info("History worker shutting down", "worker", name, "processed", processed, "errors", failed)
			return
		}

		ev, id, err := w.queue.Consume(ctx, name, w.block)
		if err != nil {
			if errors.Is(err, common.ErrQueueClosed) || ctx.Err() != nil {
				logging.Info("History worker shutting down", "worker", name, "processed", processed, "errors", failed)
				return
			}
			logging.Warn("Error consuming mission event", "worker", name, "error", err)
			sleepCtx(ctx, errorBackoff)
			continue
		}

		if ev == nil {
			continue
		}

		if err := w.handle(ctx, ev); err != nil {
			logging.Error("Failed to record mission outcome", "worker", name, "mission_id", ev.MissionID, "error", err)
			failed++
		} else {
			processed++
		}

		// Acked either way; a failed record is logged, not retried.
		if err := w.queue.Ack(ctx, id); err != nil {
			logging.Warn("Failed to ack mission event", "worker", name, "id", id, "error", err)
		}
	}
}

// claimStaleMessages periodically claims events that have been pending too
// long and processes them like freshly consumed ones.
func (w *HistoryWorker) claimStaleMessages(ctx context.Context, claimer StaleClaimer) {
	ticker := time.NewTicker(w.claimInterval)
	defer ticker.Stop()

	name := w.workerID + "-claimer"
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reclaim(ctx, claimer, name)
		}
	}
}

func (w *HistoryWorker) reclaim(ctx context.Context, claimer StaleClaimer, name string) {
	events, ids, err := claimer.ClaimStale(ctx, name, w.staleAfter)
	if err != nil {
		if ctx.Err() == nil {
			logging.Warn("Failed to claim stale mission events", "worker", name, "error", err)
		}
		return
	}
	if len(events) == 0 {
		return
	}

	logging.Info("Claimed stale mission events", "worker", name, "count", len(events))
	for i, ev := range events {
		if err := w.handle(ctx, ev); err != nil {
			logging.Error("Failed to record claimed mission outcome", "worker", name, "mission_id", ev.MissionID, "error", err)
		}
		if err := w.queue.Ack(ctx, ids[i]); err != nil {
			logging.Warn("Failed to ack mission event", "worker", name, "id", ids[i], "error", err)
		}
	}
}

func (w *HistoryWorker) handle(ctx context.Context, ev *common.MissionEvent) error {
	if !ShouldRecord(ev) {
		return nil
	}

	rec, err := w.recorder.RecordOutcome(ctx, ev.MissionID, *ev.DroneID, ev.To, ev.OccurredAt)
	if err != nil {
		return err
	}

	if w.metrics != nil {
		w.metrics.HistoryRecordsAutoLogged.Inc()
	}
	logging.Debug("Recorded mission outcome", "history_id", rec.ID, "mission_id", ev.MissionID, "status", ev.To)
	return nil
}

// ShouldRecord reports whether an event ends a flight: a mission leaving
// in-progress for a terminal status with a drone attached.
func ShouldRecord(ev *common.MissionEvent) bool {
	return ev.From == constants.MissionInProgress && ev.To.Terminal() && ev.DroneID != nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
