package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// slidingWindow trims, counts and conditionally records in one round trip so
// concurrent instances cannot both take the last slot.
//
// KEYS[1] sorted set; ARGV: now (ms), window (ms), limit, member.
// Returns {allowed (0|1), remaining}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
	return {0, 0}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1}
`)

// RedisStore shares rate limit state between processes.
//
// Each key is a sorted set of admission timestamps (milliseconds) that expires
// one window after its last admission.
type RedisStore struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisStore creates a RedisStore prefixing every key with namespace.
func NewRedisStore(client redis.UniversalClient, namespace string) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
	}
}

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (Decision, error) {
	nowMs := now.UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + ":" + uuid.NewString()

	res, err := slidingWindow.Run(ctx, s.client, []string{s.key(key)},
		nowMs, window.Milliseconds(), limit, member,
	).Result()
	if err != nil {
		return Decision{}, errors.Wrap(err, "run sliding window script")
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, errors.Errorf("unexpected script reply %v", res)
	}
	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return Decision{}, errors.Errorf("unexpected script reply %v", res)
	}

	return Decision{Allowed: allowed == 1, Remaining: int(remaining)}, nil
}

// Ping checks connectivity to Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.namespace, key)
}
