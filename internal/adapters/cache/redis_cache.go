package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisPrefix = "routeopt:"

// RedisDistanceCache keeps distance results as JSON strings with a TTL,
// one key per origin/destination pair.
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

func (c *RedisDistanceCache) key(origin, dest string) string {
	return redisPrefix + "dist:" + origin + "|" + dest
}

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if c.rdb == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	dests := uniqueKeys(destinations)
	out := make(map[string]ports.DistanceResult, len(dests))
	if len(dests) == 0 {
		return out, nil
	}

	keys := make([]string, len(dests))
	for i, d := range dests {
		keys[i] = c.key(origin, d)
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: mget: %w", err)
	}

	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var r ports.DistanceResult
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			continue
		}
		out[dests[i]] = r
	}

	return out, nil
}

func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if c.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("insert distance cache: encode: %w", err)
		}
		pipe.Set(ctx, c.key(origin, dest), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: pipeline: %w", err)
	}
	return nil
}

// RedisGeocodeCache keeps address lookups as JSON coordinates with a TTL.
type RedisGeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl}
}

func (c *RedisGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	if c.rdb == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	addrs := uniqueKeys(addresses)
	out := make(map[string]domain.Coordinates, len(addrs))
	if len(addrs) == 0 {
		return out, nil
	}

	keys := make([]string, len(addrs))
	for i, a := range addrs {
		keys[i] = redisPrefix + "geo:" + a
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var coords domain.Coordinates
		if err := json.Unmarshal([]byte(raw), &coords); err != nil {
			continue
		}
		out[addrs[i]] = coords
	}

	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if c.rdb == nil {
		return errors.New("geocode cache: redis client is nil")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for addr, coords := range results {
		if strings.TrimSpace(addr) == "" {
			return errors.New("insert geocode cache: empty address key")
		}
		data, err := json.Marshal(coords)
		if err != nil {
			return fmt.Errorf("insert geocode cache: encode: %w", err)
		}
		pipe.Set(ctx, redisPrefix+"geo:"+addr, data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: pipeline: %w", err)
	}
	return nil
}
