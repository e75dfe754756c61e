package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"skyrelief/dispatch/internal/constants"
)

func TestMemoryEventQueue_PublishConsume(t *testing.T) {
	q := NewMemoryEventQueue(4)
	defer q.Close()
	ctx := context.Background()

	drone := uint(3)
	ev := MissionEvent{MissionID: 1, DroneID: &drone, From: constants.MissionInProgress, To: constants.MissionCompleted}
	if err := q.Publish(ctx, ev); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got, id, err := q.Consume(ctx, "w1", time.Second)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if got == nil || got.MissionID != 1 || *got.DroneID != 3 {
		t.Fatalf("Unexpected event: %+v", got)
	}
	if id == "" {
		t.Error("Expected a message id")
	}
	if err := q.Ack(ctx, id); err != nil {
		t.Errorf("Ack failed: %v", err)
	}
}

func TestMemoryEventQueue_Timeout(t *testing.T) {
	q := NewMemoryEventQueue(1)
	defer q.Close()

	got, _, err := q.Consume(context.Background(), "w1", 10*time.Millisecond)
	if err != nil || got != nil {
		t.Errorf("Expected empty timeout, got %v / %v", got, err)
	}
}

func TestMemoryEventQueue_Full(t *testing.T) {
	q := NewMemoryEventQueue(1)
	defer q.Close()
	ctx := context.Background()

	if err := q.Publish(ctx, MissionEvent{MissionID: 1}); err != nil {
		t.Fatalf("First publish failed: %v", err)
	}
	if err := q.Publish(ctx, MissionEvent{MissionID: 2}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
}

func TestMemoryEventQueue_Close(t *testing.T) {
	q := NewMemoryEventQueue(1)
	q.Close()
	q.Close()

	if _, _, err := q.Consume(context.Background(), "w1", time.Second); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Expected ErrQueueClosed from Consume, got %v", err)
	}
	if err := q.Publish(context.Background(), MissionEvent{}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Expected ErrQueueClosed from Publish, got %v", err)
	}
}

func TestEventCodec(t *testing.T) {
	ev := MissionEvent{
		MissionID:  42,
		From:       constants.MissionPending,
		To:         constants.MissionCancelled,
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := encodeEvent(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := decodeEvent(map[string]interface{}{"data": data})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MissionID != 42 || got.To != constants.MissionCancelled || got.DroneID != nil {
		t.Errorf("Unexpected decoded event: %+v", got)
	}

	if _, err := decodeEvent(map[string]interface{}{"other": "x"}); err == nil {
		t.Error("Expected error for missing data field")
	}
}
