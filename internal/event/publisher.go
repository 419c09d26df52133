package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/redis/go-redis/v9"
)

// Publisher enqueues domain events for the notification worker.
// Publishing happens after the triggering transaction commits; a publish
// failure is logged by the caller and never rolls the transition back.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type redisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a Publisher backed by a Redis list.
func NewRedisPublisher(rdb *redis.Client) Publisher {
	return &redisPublisher{rdb: rdb}
}

func (p *redisPublisher) Publish(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.RPush(ctx, config.WorkerKey.NotificationQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue event: %w", err)
	}
	return nil
}
