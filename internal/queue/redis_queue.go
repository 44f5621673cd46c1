package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a Redis list used as the task broker: LPUSH on submit,
// BRPOP in the workers.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a queue over the given list key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, errors.New("unexpected BRPOP reply")
	}

	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return nil, err
	}
	return &task, nil
}
