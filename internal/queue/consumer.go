package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is one entry read from a stream.
type Message struct {
	ID    string // Redis message ID (e.g. "1702000000000-0")
	Event Event
}

// Consumer reads events from a stream via a consumer group.
type Consumer interface {
	// EnsureGroup creates the consumer group if it doesn't exist. Call at
	// worker startup.
	EnsureGroup(ctx context.Context, stream, group string) error

	// Read reads up to count new messages, blocking up to block for them.
	Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error)

	// Ack removes processed messages from the group's pending list.
	Ack(ctx context.Context, stream, group string, messageIDs ...string) error
}

// RedisConsumer implements Consumer using Redis Streams.
type RedisConsumer struct {
	client *redis.Client
}

// NewConsumer creates a Consumer backed by Redis Streams.
func NewConsumer(client *redis.Client) *RedisConsumer {
	return &RedisConsumer{client: client}
}

// EnsureGroup creates the group with MKSTREAM so stream and group both come
// into existence together. "0" makes the group pick up any messages already
// in the stream.
func (c *RedisConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	err := c.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		// BUSYGROUP means the group already exists.
		if err.Error() == "BUSYGROUP Consumer Group name already exists" {
			return nil
		}
		return fmt.Errorf("create consumer group: %w", err)
	}

	log.Printf("[Consumer] created group=%s on stream=%s", group, stream)
	return nil
}

// Read reads new messages with XREADGROUP. Malformed messages are skipped.
func (c *RedisConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if err == redis.Nil {
		return nil, nil // timeout, no new messages
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}

	return parseMessages(streams), nil
}

// ReadPending reads messages that were delivered but never acknowledged,
// for crash recovery at worker startup.
func (c *RedisConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]Message, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, "0"},
		Count:    count,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup pending: %w", err)
	}

	return parseMessages(streams), nil
}

// Ack acknowledges messages with XACK.
func (c *RedisConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	if err := c.client.XAck(ctx, stream, group, messageIDs...).Err(); err != nil {
		return fmt.Errorf("xack: %w", err)
	}
	return nil
}

func parseMessages(streams []redis.XStream) []Message {
	var messages []Message
	for _, s := range streams {
		for _, msg := range s.Messages {
			event, err := ParseEvent(msg.Values)
			if err != nil {
				log.Printf("[Consumer] skipping malformed msgID=%s: %v", msg.ID, err)
				continue
			}
			messages = append(messages, Message{ID: msg.ID, Event: event})
		}
	}
	return messages
}
