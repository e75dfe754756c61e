package common

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"skyrelief/dispatch/internal/constants"
)

// ErrQueueFull is returned by Publish when the in-memory buffer is full.
var ErrQueueFull = errors.New("event queue is full")

// ErrQueueClosed is returned once Close has been called.
var ErrQueueClosed = errors.New("event queue is closed")

// MissionEvent records a committed mission status change.
type MissionEvent struct {
	MissionID  uint                    `json:"mission_id"`
	DroneID    *uint                   `json:"drone_id,omitempty"`
	From       constants.MissionStatus `json:"from"`
	To         constants.MissionStatus `json:"to"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// EventQueue carries mission events from the API to background workers.
type EventQueue interface {
	Publish(ctx context.Context, ev MissionEvent) error

	// Consume waits up to block for the next event. It returns a nil event
	// and no error when nothing arrived in time.
	Consume(ctx context.Context, consumer string, block time.Duration) (*MissionEvent, string, error)

	Ack(ctx context.Context, id string) error

	Close() error
}

type memoryEnvelope struct {
	id string
	ev MissionEvent
}

// MemoryEventQueue is a buffered channel queue for single-process setups.
// Ack is a no-op: an event is gone once it is consumed.
type MemoryEventQueue struct {
	ch     chan memoryEnvelope
	seq    atomic.Uint64
	closed atomic.Bool
	done   chan struct{}
}

var _ EventQueue = (*MemoryEventQueue)(nil)

func NewMemoryEventQueue(size int) *MemoryEventQueue {
	if size < 1 {
		size = 1
	}
	return &MemoryEventQueue{
		ch:   make(chan memoryEnvelope, size),
		done: make(chan struct{}),
	}
}

func (q *MemoryEventQueue) Publish(ctx context.Context, ev MissionEvent) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}

	env := memoryEnvelope{id: strconv.FormatUint(q.seq.Add(1), 10), ev: ev}
	select {
	case q.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryEventQueue) Consume(ctx context.Context, _ string, block time.Duration) (*MissionEvent, string, error) {
	timer := time.NewTimer(block)
	defer timer.Stop()

	select {
	case env := <-q.ch:
		return &env.ev, env.id, nil
	case <-timer.C:
		return nil, "", nil
	case <-q.done:
		return nil, "", ErrQueueClosed
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

func (q *MemoryEventQueue) Ack(_ context.Context, _ string) error {
	return nil
}

// Len returns the number of buffered events.
func (q *MemoryEventQueue) Len() int {
	return len(q.ch)
}

func (q *MemoryEventQueue) Backlog(_ context.Context) (int64, error) {
	return int64(len(q.ch)), nil
}

func (q *MemoryEventQueue) Close() error {
	if q.closed.CompareAndSwap(false, true) {
		close(q.done)
	}
	return nil
}
