package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/models"
)

// Publisher is the subset of the Redis client used to broadcast events.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisEventPublisher publishes committed students as JSON on a Redis channel.
// Selection events are ignored.
type RedisEventPublisher struct {
	client  Publisher
	channel string
	logger  *zap.Logger
}

// NewRedisEventPublisher constructs a RedisEventPublisher.
func NewRedisEventPublisher(client Publisher, channel string, logger *zap.Logger) *RedisEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisEventPublisher{client: client, channel: channel, logger: logger}
}

// Name identifies the sink.
func (p *RedisEventPublisher) Name() string { return "redis" }

// Deliver publishes committed events.
func (p *RedisEventPublisher) Deliver(ctx context.Context, event models.StudentEvent) error {
	if p.client == nil || event.Kind != models.EventStudentCommitted {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal student event %s: %w", event.ID, err)
	}
	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	p.logger.Debug("student event published", zap.String("event_id", event.ID), zap.String("channel", p.channel), zap.Int64("receivers", receivers))
	return nil
}
