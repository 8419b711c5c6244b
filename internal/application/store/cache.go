package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"onegov/internal/application/models"
)

const (
	trackingKeyPrefix = "onegov:track:"
	generationSuffix  = ":gen"
)

// fillScript caches a read-through value only when the generation seen before
// the source read is still current. Invalidate bumps the generation, so a
// read that raced a transition never repopulates the stale copy.
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if (gen or '') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// TrackingSource is the authoritative lookup the cache reads through to.
type TrackingSource interface {
	FindByTrackingID(ctx context.Context, trackingID string) (*models.Application, error)
}

// TrackingCache is a Redis read-through cache for anonymous tracking lookups.
// Cache failures degrade to the source; they never turn into empty results.
type TrackingCache struct {
	client *redis.Client
	source TrackingSource
	ttl    time.Duration
	logger *slog.Logger
}

func NewTrackingCache(client *redis.Client, source TrackingSource, ttl time.Duration, logger *slog.Logger) *TrackingCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TrackingCache{client: client, source: source, ttl: ttl, logger: logger}
}

func (c *TrackingCache) FindByTrackingID(ctx context.Context, trackingID string) (*models.Application, error) {
	key := trackingKeyPrefix + trackingID
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var app models.Application
		if err := json.Unmarshal(raw, &app); err == nil {
			return &app, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable tracking cache entry", "tracking_id", trackingID)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "tracking cache read failed", "tracking_id", trackingID, "error", err)
	}

	genKey := key + generationSuffix
	gen, genErr := c.client.Get(ctx, genKey).Result()
	if errors.Is(genErr, redis.Nil) {
		gen, genErr = "", nil
	}

	app, err := c.source.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		c.logger.WarnContext(ctx, "tracking cache generation read failed", "tracking_id", trackingID, "error", genErr)
		return app, nil
	}
	if encoded, err := json.Marshal(app); err == nil {
		err := fillScript.Run(ctx, c.client, []string{key, genKey}, gen, encoded, c.ttl.Milliseconds()).Err()
		if err != nil {
			c.logger.WarnContext(ctx, "tracking cache write failed", "tracking_id", trackingID, "error", err)
		}
	}
	return app, nil
}

// Invalidate drops the cached view of trackingID and bumps its generation so
// in-flight read-throughs do not cache what they read. Call it after the
// transition has committed.
func (c *TrackingCache) Invalidate(ctx context.Context, trackingID string) error {
	key := trackingKeyPrefix + trackingID
	genKey := key + generationSuffix
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.PExpire(ctx, genKey, 2*c.ttl)
		pipe.Del(ctx, key)
		return nil
	})
	return err
}
