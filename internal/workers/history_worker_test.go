package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/config"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/metrics"
	gormModels "skyrelief/dispatch/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordCall struct {
	missionID uint
	droneID   uint
	status    constants.MissionStatus
}

// Mock OutcomeRecorder
type mockRecorder struct {
	mu    sync.Mutex
	calls []recordCall
	err   error
	done  chan struct{}
}

func (m *mockRecorder) RecordOutcome(_ context.Context, missionID, droneID uint, status constants.MissionStatus, _ time.Time) (*gormModels.MissionHistoryRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, recordCall{missionID, droneID, status})
	m.mu.Unlock()

	if m.done != nil {
		m.done <- struct{}{}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &gormModels.MissionHistoryRecord{ID: 1, MissionID: missionID, DroneID: droneID}, nil
}

func droneID(v uint) *uint { return &v }

func TestShouldRecord(t *testing.T) {
	tests := []struct {
		name string
		ev   common.MissionEvent
		want bool
	}{
		{"completed flight", common.MissionEvent{From: constants.MissionInProgress, To: constants.MissionCompleted, DroneID: droneID(1)}, true},
		{"failed flight", common.MissionEvent{From: constants.MissionInProgress, To: constants.MissionFailed, DroneID: droneID(1)}, true},
		{"cancelled in flight", common.MissionEvent{From: constants.MissionInProgress, To: constants.MissionCancelled, DroneID: droneID(1)}, true},
		{"cancelled before takeoff", common.MissionEvent{From: constants.MissionPending, To: constants.MissionCancelled, DroneID: droneID(1)}, false},
		{"dispatch", common.MissionEvent{From: constants.MissionPending, To: constants.MissionInProgress, DroneID: droneID(1)}, false},
		{"no drone", common.MissionEvent{From: constants.MissionInProgress, To: constants.MissionCompleted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRecord(&tt.ev); got != tt.want {
				t.Errorf("ShouldRecord() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryWorker_RecordsTerminalFlights(t *testing.T) {
	queue := common.NewMemoryEventQueue(8)
	defer queue.Close()

	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rec := &mockRecorder{done: make(chan struct{}, 8)}
	w := NewHistoryWorker("test", queue, rec, reg, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx, 2) }()

	publish := func(ev common.MissionEvent) {
		if err := queue.Publish(context.Background(), ev); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	publish(common.MissionEvent{MissionID: 1, DroneID: droneID(4), From: constants.MissionPending, To: constants.MissionInProgress})
	publish(common.MissionEvent{MissionID: 1, DroneID: droneID(4), From: constants.MissionInProgress, To: constants.MissionCompleted})

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the history record")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Start returned %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(rec.calls))
	}
	if rec.calls[0] != (recordCall{1, 4, constants.MissionCompleted}) {
		t.Errorf("Unexpected record: %+v", rec.calls[0])
	}
	if got := testutil.ToFloat64(reg.HistoryRecordsAutoLogged); got != 1 {
		t.Errorf("Expected 1 auto-logged record, got %v", got)
	}
}

func TestHistoryWorker_RecorderErrorDoesNotStopWorker(t *testing.T) {
	queue := common.NewMemoryEventQueue(8)
	rec := &mockRecorder{err: errors.New("db down"), done: make(chan struct{}, 8)}
	w := NewHistoryWorker("test", queue, rec, nil, 20*time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background(), 1) }()

	for i := uint(1); i <= 2; i++ {
		queue.Publish(context.Background(), common.MissionEvent{MissionID: i, DroneID: droneID(1), From: constants.MissionInProgress, To: constants.MissionFailed})
	}

	for i := 0; i < 2; i++ {
		select {
		case <-rec.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for attempt %d", i+1)
		}
	}

	// Closing the queue stops the workers.
	queue.Close()
	if err := <-errCh; err != nil {
		t.Errorf("Start returned %v", err)
	}
}

// claimingQueue is a memory queue that also hands out one batch of stale
// events and remembers what was acked.
type claimingQueue struct {
	*common.MemoryEventQueue

	mu      sync.Mutex
	stale   []*common.MissionEvent
	ids     []string
	minIdle time.Duration
	claimer string
	acked   []string
}

func (q *claimingQueue) ClaimStale(_ context.Context, consumer string, minIdle time.Duration) ([]*common.MissionEvent, []string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.claimer, q.minIdle = consumer, minIdle
	events, ids := q.stale, q.ids
	q.stale, q.ids = nil, nil
	return events, ids, nil
}

func (q *claimingQueue) Ack(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, id)
	return nil
}

func TestHistoryWorker_ClaimsStaleEvents(t *testing.T) {
	queue := &claimingQueue{
		MemoryEventQueue: common.NewMemoryEventQueue(4),
		stale: []*common.MissionEvent{
			{MissionID: 7, DroneID: droneID(3), From: constants.MissionInProgress, To: constants.MissionCompleted},
			{MissionID: 8, DroneID: droneID(3), From: constants.MissionPending, To: constants.MissionInProgress},
		},
		ids: []string{"1-0", "2-0"},
	}

	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rec := &mockRecorder{done: make(chan struct{}, 4)}
	w := NewHistoryWorker("test", queue, rec, reg, 10*time.Millisecond)
	w.claimInterval = 10 * time.Millisecond
	w.staleAfter = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx, 1) }()

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the claimed event to be recorded")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		queue.mu.Lock()
		n := len(queue.acked)
		queue.mu.Unlock()
		if n == 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Start returned %v", err)
	}
	queue.Close()

	queue.mu.Lock()
	defer queue.mu.Unlock()
	if len(queue.acked) != 2 || queue.acked[0] != "1-0" || queue.acked[1] != "2-0" {
		t.Errorf("Expected both claimed events acked, got %v", queue.acked)
	}
	if queue.claimer != "test-claimer" || queue.minIdle != time.Minute {
		t.Errorf("Unexpected claim call: consumer=%q minIdle=%v", queue.claimer, queue.minIdle)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) != 1 || rec.calls[0] != (recordCall{7, 3, constants.MissionCompleted}) {
		t.Errorf("Expected only the finished flight recorded, got %+v", rec.calls)
	}
}

func TestHistoryWorker_ClaimerStopsWithConsumers(t *testing.T) {
	queue := &claimingQueue{MemoryEventQueue: common.NewMemoryEventQueue(1)}
	w := NewHistoryWorker("test", queue, &mockRecorder{}, nil, 10*time.Millisecond)
	w.claimInterval = 10 * time.Millisecond

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background(), 2) }()

	time.Sleep(30 * time.Millisecond)
	queue.Close()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Claimer kept the worker running after the queue closed")
	}
}

func TestWorkersContainer_Run(t *testing.T) {
	queue := common.NewMemoryEventQueue(4)
	defer queue.Close()

	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	c := InitWorkers(queue, &mockRecorder{}, reg, config.EventsConfig{HistoryWorker: 3, BlockTimeout: 10 * time.Millisecond})
	if c.Monitor == nil {
		t.Fatal("Expected a monitor for the memory queue")
	}

	queue.Publish(context.Background(), common.MissionEvent{MissionID: 1})
	queue.Publish(context.Background(), common.MissionEvent{MissionID: 2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Workers did not stop after cancel")
	}
}

func TestQueueMonitor_SetsBacklog(t *testing.T) {
	queue := common.NewMemoryEventQueue(4)
	defer queue.Close()
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	queue.Publish(context.Background(), common.MissionEvent{MissionID: 1})
	queue.Publish(context.Background(), common.MissionEvent{MissionID: 2})

	NewQueueMonitor(queue, reg).check(context.Background())

	if got := testutil.ToFloat64(reg.MissionEventBacklog); got != 2 {
		t.Errorf("Expected backlog 2, got %v", got)
	}
}
