package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const dueKey = "publish:due"

// Queue tracks scheduled post ids ordered by their publish instant so the
// external publisher can poll for due work. A nil redis client degrades to
// a no-op; the posts table remains the source of truth.
type Queue struct {
	redis *redis.Client
}

func New(client *redis.Client) *Queue {
	return &Queue{redis: client}
}

func (q *Queue) Enqueue(ctx context.Context, postID string, at time.Time) error {
	if q.redis == nil {
		return nil
	}
	return q.redis.ZAdd(ctx, dueKey, redis.Z{
		Score:  float64(at.Unix()),
		Member: postID,
	}).Err()
}

func (q *Queue) Remove(ctx context.Context, postID string) error {
	if q.redis == nil {
		return nil
	}
	return q.redis.ZRem(ctx, dueKey, postID).Err()
}

// Due returns ids whose publish instant is at or before now, oldest first.
func (q *Queue) Due(ctx context.Context, now time.Time) ([]string, error) {
	if q.redis == nil {
		return nil, nil
	}
	return q.redis.ZRangeByScore(ctx, dueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
}
