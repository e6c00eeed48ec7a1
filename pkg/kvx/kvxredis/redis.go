package kvxredis

import (
	"context"
	"errors"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/kvx"
	"github.com/redis/go-redis/v9"
)

// Store implements kvx.Store on a go-redis client.
type Store struct {
	rdb redis.UniversalClient
}

var _ kvx.Store = (*Store)(nil)

func NewStore(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return kvx.ErrUnavailable("set", err).WithDetail("key", key)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", kvx.ErrNotFound(key)
	}
	if err != nil {
		return "", kvx.ErrUnavailable("get", err).WithDetail("key", key)
	}
	return v, nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return kvx.ErrUnavailable("del", err).WithDetail("keys", keys)
	}
	return nil
}

// HashSet writes the hash and its expiry in one MULTI/EXEC so the staged
// value never exists without a TTL.
func (s *Store) HashSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return kvx.ErrUnavailable("hset", err).WithDetail("key", key)
	}
	return nil
}

func (s *Store) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, kvx.ErrUnavailable("hgetall", err).WithDetail("key", key)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func (s *Store) TypeOf(ctx context.Context, key string) (kvx.Kind, error) {
	t, err := s.rdb.Type(ctx, key).Result()
	if err != nil {
		return "", kvx.ErrUnavailable("type", err).WithDetail("key", key)
	}
	return kvx.Kind(t), nil
}

// compareAndDeleteScript returns 1 when the value matched and was deleted,
// -1 on mismatch and 0 when the key is absent.
var compareAndDeleteScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
  return 0
end
if current ~= ARGV[1] then
  return -1
end
redis.call('DEL', KEYS[1])
return 1
`)

func (s *Store) CompareAndDelete(ctx context.Context, key, expected string) (kvx.Outcome, error) {
	n, err := compareAndDeleteScript.Run(ctx, s.rdb, []string{key}, expected).Int()
	if err != nil {
		return kvx.Missing, kvx.ErrUnavailable("compare_and_delete", err).WithDetail("key", key)
	}

	switch n {
	case 1:
		return kvx.Deleted, nil
	case -1:
		return kvx.Mismatch, nil
	default:
		return kvx.Missing, nil
	}
}

var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 and tonumber(ARGV[1]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := incrScript.Run(ctx, s.rdb, []string{key}, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, kvx.ErrUnavailable("incr", err).WithDetail("key", key)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return kvx.ErrUnavailable("ping", err)
	}
	return nil
}
