package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"onegov/internal/ratelimit/models"
	"onegov/pkg/platform/sentinel"
)

const keyPrefix = "onegov:ratelimit:"

// slidingWindow trims the sorted set to the window, then admits the request
// when there is room. Scores are unix milliseconds.
// Returns {allowed, count, oldest_score}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	count = count + 1
	allowed = 1
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local score = now
if oldest[2] then
	score = tonumber(oldest[2])
end
return {allowed, count, score}
`)

// RedisBucketStore shares windows across replicas. Each check is a single
// script call so concurrent requests cannot overshoot the limit.
type RedisBucketStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit models.Limit) (models.Result, error) {
	now := s.now()
	res, err := slidingWindow.Run(ctx, s.client, []string{keyPrefix + key},
		now.UnixMilli(),
		limit.Window.Milliseconds(),
		limit.Requests,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return models.Result{}, fmt.Errorf("rate limit script: %w: %w", sentinel.ErrUnavailable, err)
	}
	if len(res) != 3 {
		return models.Result{}, fmt.Errorf("rate limit script returned %d values: %w", len(res), sentinel.ErrUnavailable)
	}

	resetAt := time.UnixMilli(res[2]).Add(limit.Window)
	result := models.Result{
		Allowed: res[0] == 1,
		Limit:   limit.Requests,
		ResetAt: resetAt,
	}
	if result.Allowed {
		result.Remaining = limit.Requests - int(res[1])
	} else {
		result.RetryAfter = resetAt.Sub(now)
	}
	return result, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset %q: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}
