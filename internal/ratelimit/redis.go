package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "ratelimit:bucket"

// casScript swaps the bucket hash only when it still matches the caller's
// snapshot. ARGV: expectExisting, oldCount, oldReset, newCount, newReset.
// The key expires just after its window so Redis bounds memory on its own.
var casScript = redis.NewScript(`
local cur = redis.call('HMGET', KEYS[1], 'count', 'reset_at')
if ARGV[1] == '0' then
  if cur[1] then return 0 end
else
  if cur[1] ~= ARGV[2] or cur[2] ~= ARGV[3] then return 0 end
end
redis.call('HSET', KEYS[1], 'count', ARGV[4], 'reset_at', ARGV[5])
redis.call('PEXPIREAT', KEYS[1], tonumber(ARGV[5]) + 1)
return 1
`)

// RedisStore shares buckets between instances through Redis hashes.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// RedisOption customizes a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key namespace.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

// NewRedisStore constructs a store on top of an existing client.
func NewRedisStore(rdb redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + key
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (Bucket, bool, error) {
	vals, err := s.rdb.HMGet(ctx, s.key(key), "count", "reset_at").Result()
	if err != nil {
		return Bucket{}, false, fmt.Errorf("redis hmget %s: %w", key, err)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return Bucket{}, false, nil
	}

	countStr, _ := vals[0].(string)
	resetStr, _ := vals[1].(string)

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return Bucket{}, false, fmt.Errorf("invalid bucket count %q: %w", countStr, err)
	}
	resetMs, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return Bucket{}, false, fmt.Errorf("invalid bucket reset %q: %w", resetStr, err)
	}

	return Bucket{Count: count, ResetAt: time.UnixMilli(resetMs)}, true, nil
}

// CompareAndSwap implements Store.
func (s *RedisStore) CompareAndSwap(ctx context.Context, key string, old *Bucket, next Bucket) (bool, error) {
	expect, oldCount, oldReset := "0", "", ""
	if old != nil {
		expect = "1"
		oldCount = strconv.Itoa(old.Count)
		oldReset = strconv.FormatInt(old.ResetAt.UnixMilli(), 10)
	}

	swapped, err := casScript.Run(ctx, s.rdb, []string{s.key(key)},
		expect, oldCount, oldReset,
		strconv.Itoa(next.Count), strconv.FormatInt(next.ResetAt.UnixMilli(), 10),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis bucket swap %s: %w", key, err)
	}
	return swapped == 1, nil
}

var _ Store = (*RedisStore)(nil)
