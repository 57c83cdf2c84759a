package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/model"
	"github.com/redis/go-redis/v9"
)

// eventPayload is the queued form of a submission event.
type eventPayload struct {
	model.SubmissionEvent
	Attempts int `json:"attempts,omitempty"`
}

// RedisEventQueue pushes submission events onto the Redis list drained by EventWorker.
type RedisEventQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisEventQueue creates a RedisEventQueue on the default events list.
func NewRedisEventQueue(rdb *redis.Client) *RedisEventQueue {
	return &RedisEventQueue{rdb: rdb, key: config.WorkerKey.SubmissionEventsQueue}
}

// Publish appends ev to the queue.
func (q *RedisEventQueue) Publish(ctx context.Context, ev model.SubmissionEvent) error {
	raw, err := json.Marshal(eventPayload{SubmissionEvent: ev})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}
