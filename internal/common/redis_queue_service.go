package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"skyrelief/dispatch/internal/logging"

	"github.com/redis/go-redis/v9"
)

const (
	// Older entries are trimmed once the stream grows past this length.
	streamMaxLen = 10000

	// Upper bound on pending entries inspected per ClaimStale call.
	claimBatch = 100
)

// RedisQueueService is an EventQueue backed by a Redis Stream and a single
// consumer group, so each event goes to exactly one worker. Delivered events
// stay pending until acked; ClaimStale hands those left behind by a dead
// worker to another consumer.
type RedisQueueService struct {
	client *redis.Client
	stream string
	group  string
}

var _ EventQueue = (*RedisQueueService)(nil)

// NewRedisQueueService creates a Redis queue service
func NewRedisQueueService(client *redis.Client, stream, group string) *RedisQueueService {
	return &RedisQueueService{
		client: client,
		stream: stream,
		group:  group,
	}
}

// Publish adds an event to the stream
func (s *RedisQueueService) Publish(ctx context.Context, ev MissionEvent) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return err
	}

	// XADD stream * data <json>
	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"data": data},
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// Consume reads the next new event for this consumer.
// Returns (event, messageID, error)
func (s *RedisQueueService) Consume(ctx context.Context, consumer string, block time.Duration) (*MissionEvent, string, error) {
	// XREADGROUP GROUP group consumer BLOCK ms COUNT 1 STREAMS stream >
	args := &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: consumer,
		Streams:  []string{s.stream, ">"},
		Count:    1,
		Block:    block,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	ev, err := decodeEvent(msg.Values)
	if err != nil {
		// Ack poison messages so they are not redelivered forever.
		s.dropPoison(ctx, msg.ID, err)
		return nil, "", err
	}

	return ev, msg.ID, nil
}

// ClaimStale takes over events that have been pending longer than minIdle,
// typically because the consumer that read them died before acking.
// Returns the claimed events and their message IDs, which the caller must ack.
func (s *RedisQueueService) ClaimStale(ctx context.Context, consumer string, minIdle time.Duration) ([]*MissionEvent, []string, error) {
	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: s.stream,
		Group:  s.group,
		Start:  "-",
		End:    "+",
		Count:  claimBatch,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdle {
			staleIDs = append(staleIDs, p.ID)
		}
	}
	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	messages, err := s.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   s.stream,
		Group:    s.group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	var (
		events []*MissionEvent
		ids    []string
	)
	for _, msg := range messages {
		ev, err := decodeEvent(msg.Values)
		if err != nil {
			s.dropPoison(ctx, msg.ID, err)
			continue
		}
		events = append(events, ev)
		ids = append(ids, msg.ID)
	}

	return events, ids, nil
}

func (s *RedisQueueService) dropPoison(ctx context.Context, id string, cause error) {
	logging.Warn("Dropping undecodable mission event", "stream", s.stream, "id", id, "error", cause)
	if err := s.Ack(ctx, id); err != nil {
		logging.Warn("Failed to ack mission event", "stream", s.stream, "id", id, "error", err)
	}
}

// Ack acknowledges successful processing of a message
func (s *RedisQueueService) Ack(ctx context.Context, id string) error {
	return s.client.XAck(ctx, s.stream, s.group, id).Err()
}

// EnsureGroup creates the consumer group if it doesn't exist
func (s *RedisQueueService) EnsureGroup(ctx context.Context) error {
	// XGROUP CREATE stream group 0 MKSTREAM
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// Backlog returns the number of events the group has not finished with:
// entries not yet delivered plus delivered entries awaiting an ack.
func (s *RedisQueueService) Backlog(ctx context.Context) (int64, error) {
	undelivered, err := s.undelivered(ctx)
	if err != nil {
		return 0, err
	}

	pending, err := s.client.XPending(ctx, s.stream, s.group).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return undelivered + pending.Count, nil
}

func (s *RedisQueueService) undelivered(ctx context.Context) (int64, error) {
	groups, err := s.client.XInfoGroups(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get group info: %w", err)
	}

	for _, g := range groups {
		if g.Name != s.group {
			continue
		}
		// Lag is only reliable once the group has read something.
		if g.EntriesRead > 0 && g.Lag >= 0 {
			return g.Lag, nil
		}

		start := "-"
		if g.LastDeliveredID != "0" && g.LastDeliveredID != "0-0" {
			start = "(" + g.LastDeliveredID
		}
		msgs, err := s.client.XRangeN(ctx, s.stream, start, "+", streamMaxLen).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to read undelivered entries: %w", err)
		}
		return int64(len(msgs)), nil
	}

	return 0, fmt.Errorf("consumer group %s not found on %s", s.group, s.stream)
}

// Close is a no-op; the client is owned by the caller.
func (s *RedisQueueService) Close() error {
	return nil
}

func encodeEvent(ev MissionEvent) (string, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("failed to marshal mission event: %w", err)
	}
	return string(data), nil
}

func decodeEvent(values map[string]interface{}) (*MissionEvent, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid message format: data field missing")
	}

	var ev MissionEvent
	if err := json.Unmarshal([]byte(dataStr), &ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mission event: %w", err)
	}
	return &ev, nil
}
