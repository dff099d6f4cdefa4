package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"bloodlink-backend/internal/config"
)

// RedisPublisher broadcasts lifecycle events over redis pub/sub. Publishes go
// through a circuit breaker: a broken redis connection degrades the realtime
// feed, never the lifecycle operation itself.
type RedisPublisher struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Events"),
	}
}

func (p *RedisPublisher) PublishRequestCreated(ctx context.Context, e RequestCreated) error {
	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return p.publish(ctx, ChannelRequestCreated, e)
}

func (p *RedisPublisher) PublishDonorResponded(ctx context.Context, e DonorResponded) error {
	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return p.publish(ctx, ChannelDonorResponded, e)
}

func (p *RedisPublisher) publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.client.Publish(ctx, channel, data).Err()
	})
	return err
}
