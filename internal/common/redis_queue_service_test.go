package common

import (
	"context"
	"testing"
	"time"

	"skyrelief/dispatch/internal/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testBlock = 100 * time.Millisecond

func setupRedisQueue(t *testing.T) (*RedisQueueService, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	q := NewRedisQueueService(client, "missions:events", "history")
	if err := q.EnsureGroup(context.Background()); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}
	return q, client, mr
}

func backlog(t *testing.T, q *RedisQueueService) int64 {
	t.Helper()
	n, err := q.Backlog(context.Background())
	if err != nil {
		t.Fatalf("Backlog failed: %v", err)
	}
	return n
}

func TestRedisQueue_PublishConsumeAck(t *testing.T) {
	q, _, _ := setupRedisQueue(t)
	ctx := context.Background()

	if err := q.EnsureGroup(ctx); err != nil {
		t.Errorf("Expected existing group to be accepted, got %v", err)
	}

	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	drone := uint(4)
	want := MissionEvent{MissionID: 9, DroneID: &drone, From: constants.MissionInProgress, To: constants.MissionCompleted, OccurredAt: at}
	if err := q.Publish(ctx, want); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	ev, id, err := q.Consume(ctx, "worker-0", testBlock)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if ev == nil || id == "" {
		t.Fatal("Expected an event")
	}
	if ev.MissionID != 9 || *ev.DroneID != 4 || ev.To != constants.MissionCompleted || !ev.OccurredAt.Equal(at) {
		t.Errorf("Unexpected event: %+v", ev)
	}

	if err := q.Ack(ctx, id); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}
	if n := backlog(t, q); n != 0 {
		t.Errorf("Expected empty backlog after ack, got %d", n)
	}

	ev, id, err = q.Consume(ctx, "worker-0", testBlock)
	if err != nil || ev != nil || id != "" {
		t.Errorf("Expected nothing on an empty stream, got %+v %q %v", ev, id, err)
	}
}

func TestRedisQueue_GroupSeesEventsPublishedBeforeCreation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	q := NewRedisQueueService(client, "missions:events", "history")
	if err := q.Publish(ctx, MissionEvent{MissionID: 1}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := q.EnsureGroup(ctx); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}

	ev, _, err := q.Consume(ctx, "worker-0", testBlock)
	if err != nil || ev == nil || ev.MissionID != 1 {
		t.Errorf("Expected the earlier event, got %+v %v", ev, err)
	}
}

func TestRedisQueue_BacklogCountsUndeliveredAndPending(t *testing.T) {
	q, _, _ := setupRedisQueue(t)
	ctx := context.Background()

	for i := uint(1); i <= 3; i++ {
		if err := q.Publish(ctx, MissionEvent{MissionID: i}); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	if n := backlog(t, q); n != 3 {
		t.Errorf("Expected 3 undelivered events, got %d", n)
	}

	_, id, err := q.Consume(ctx, "worker-0", testBlock)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if n := backlog(t, q); n != 3 {
		t.Errorf("Expected 2 undelivered plus 1 pending, got %d", n)
	}

	q.Ack(ctx, id)
	if n := backlog(t, q); n != 2 {
		t.Errorf("Expected 2 after ack, got %d", n)
	}
}

func TestRedisQueue_ClaimStale(t *testing.T) {
	q, client, mr := setupRedisQueue(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mr.SetTime(t0)

	q.Publish(ctx, MissionEvent{MissionID: 5, To: constants.MissionFailed})
	if ev, _, err := q.Consume(ctx, "dead-worker", testBlock); err != nil || ev == nil {
		t.Fatalf("Consume failed: %+v %v", ev, err)
	}

	events, ids, err := q.ClaimStale(ctx, "rescuer", 5*time.Minute)
	if err != nil {
		t.Fatalf("ClaimStale failed: %v", err)
	}
	if len(events) != 0 || len(ids) != 0 {
		t.Fatalf("Expected nothing to claim yet, got %d", len(events))
	}

	mr.SetTime(t0.Add(10 * time.Minute))

	events, ids, err = q.ClaimStale(ctx, "rescuer", 5*time.Minute)
	if err != nil {
		t.Fatalf("ClaimStale failed: %v", err)
	}
	if len(events) != 1 || len(ids) != 1 || events[0].MissionID != 5 {
		t.Fatalf("Expected mission 5 to be claimed, got %+v", events)
	}

	pending, err := client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: "missions:events", Group: "history", Start: "-", End: "+", Count: 10,
	}).Result()
	if err != nil {
		t.Fatalf("XPendingExt failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Consumer != "rescuer" {
		t.Errorf("Expected entry to move to rescuer, got %+v", pending)
	}

	q.Ack(ctx, ids[0])
	if n := backlog(t, q); n != 0 {
		t.Errorf("Expected empty backlog, got %d", n)
	}
}

func TestRedisQueue_UndecodableEventsAreAcked(t *testing.T) {
	q, client, mr := setupRedisQueue(t)
	ctx := context.Background()

	client.XAdd(ctx, &redis.XAddArgs{Stream: "missions:events", Values: map[string]interface{}{"data": "{not json"}})
	client.XAdd(ctx, &redis.XAddArgs{Stream: "missions:events", Values: map[string]interface{}{"other": "x"}})

	for i := 0; i < 2; i++ {
		if _, _, err := q.Consume(ctx, "worker-0", testBlock); err == nil {
			t.Errorf("Message %d: expected a decode error", i)
		}
	}
	if n := backlog(t, q); n != 0 {
		t.Errorf("Expected dropped messages to leave no backlog, got %d", n)
	}

	// A stale undecodable entry is dropped by the claimer too.
	t0 := time.Now().Add(time.Hour).Truncate(time.Second)
	mr.SetTime(t0)
	q.Publish(ctx, MissionEvent{MissionID: 6})
	client.XAdd(ctx, &redis.XAddArgs{Stream: "missions:events", Values: map[string]interface{}{"data": "[]"}})
	client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group: "history", Consumer: "dead-worker", Streams: []string{"missions:events", ">"}, Count: 2, Block: testBlock,
	})
	mr.SetTime(t0.Add(time.Hour))

	events, ids, err := q.ClaimStale(ctx, "rescuer", time.Minute)
	if err != nil {
		t.Fatalf("ClaimStale failed: %v", err)
	}
	if len(events) != 1 || events[0].MissionID != 6 {
		t.Fatalf("Expected only the valid event, got %+v", events)
	}
	q.Ack(ctx, ids[0])
	if n := backlog(t, q); n != 0 {
		t.Errorf("Expected empty backlog, got %d", n)
	}
}
