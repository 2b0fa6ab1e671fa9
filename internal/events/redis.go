// internal/events/redis.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/franchise-backoffice/internal/metrics"
)

const DefaultQueueKey = "backoffice:events"

// RedisQueue is an outbox on a Redis list. Producers LPUSH, consumers pop
// from the right so events are handled in publish order.
type RedisQueue struct {
	client  *redis.Client
	key     string
	handler Handler
	timeout time.Duration
}

func NewRedisQueue(client *redis.Client, key string, h Handler) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{client: client, key: key, handler: h, timeout: 5 * time.Second}
}

func (q *RedisQueue) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		metrics.EventsDropped.WithLabelValues(e.Type, "redis_error").Inc()
		return fmt.Errorf("push event: %w", err)
	}
	metrics.EventsPublished.WithLabelValues(e.Type, "redis").Inc()
	return nil
}

// Len returns the number of queued events.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Run blocks on BRPOP and handles events until ctx is cancelled.
func (q *RedisQueue) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := q.client.BRPop(ctx, q.timeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Error("Failed to pop event from queue")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		// BRPOP returns [key, value].
		q.dispatch(ctx, res[1])
	}
}

// Drain handles every queued event without blocking and reports how many
// were processed.
func (q *RedisQueue) Drain(ctx context.Context) (int, error) {
	n := 0
	for {
		payload, err := q.client.RPop(ctx, q.key).Result()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("pop event: %w", err)
		}
		q.dispatch(ctx, payload)
		n++
	}
}

func (q *RedisQueue) dispatch(ctx context.Context, payload string) {
	var e Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		metrics.EventsDropped.WithLabelValues("unknown", "decode_error").Inc()
		logrus.WithError(err).Error("Discarding undecodable event")
		return
	}
	handle(ctx, q.handler, e)
}
