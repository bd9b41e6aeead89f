package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"auction-engine/utils"

	"github.com/redis/go-redis/v9"
)

// envelope is the wire form of a published event
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// RedisPublisher relays events over Redis pub/sub, one channel per topic
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the Redis channel a topic is published on
func (p *RedisPublisher) Channel(topic string) string {
	return p.prefix + topic
}

func (p *RedisPublisher) Publish(ctx context.Context, topic, event string, payload any) error {
	body, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	if err := p.client.Publish(ctx, p.Channel(topic), body).Err(); err != nil {
		return fmt.Errorf("failed to publish %s on %s: %w", event, topic, err)
	}
	return nil
}

// LogPublisher stands in for a real-time channel when none is configured
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic, event string, payload any) error {
	utils.Debug("notification: event", map[string]any{"topic": topic, "event": event, "payload": payload})
	return nil
}
