package lockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAttempts     = "attempts"
	fieldLockoutUntil = "lockout_until"
)

// failScript is State.Fail executed inside Redis so that concurrent
// failures from several server instances are all counted.
//
// KEYS[1] hash key
// ARGV: now ms, max attempts, lockout end ms if this attempt locks, ttl ms
var failScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local untilMs = tonumber(redis.call('HGET', KEYS[1], 'lockout_until') or '0')
if untilMs > 0 and now >= untilMs then
	redis.call('DEL', KEYS[1])
	untilMs = 0
end
local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
if untilMs == 0 and attempts >= tonumber(ARGV[2]) then
	redis.call('HSET', KEYS[1], 'lockout_until', ARGV[3])
end
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return {attempts, redis.call('HGET', KEYS[1], 'lockout_until') or '0'}
`)

type RedisConfig struct {
	KeyPrefix string
	// TTL bounds how long an idle session keeps its counter.
	TTL time.Duration
}

// RedisStore keeps lockout state in a Redis hash per key so that it
// survives restarts and is shared between server instances.
type RedisStore struct {
	client *redis.Client
	cfg    RedisConfig
}

func NewRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	if cfg.TTL < Duration {
		cfg.TTL = Duration
	}
	return &RedisStore{client: client, cfg: cfg}
}

func (r *RedisStore) Load(ctx context.Context, key Key) (State, error) {
	values, err := r.client.HGetAll(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("redis hgetall: %w", err)
	}

	var s State
	if v, ok := values[fieldAttempts]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return State{}, fmt.Errorf("parse attempts: %w", err)
		}
		s.Attempts = n
	}
	if s.LockoutUntil, err = parseUntil(values[fieldLockoutUntil]); err != nil {
		return State{}, err
	}

	return s, nil
}

func (r *RedisStore) Fail(ctx context.Context, key Key, now time.Time) (State, error) {
	args := []any{
		now.UnixMilli(),
		MaxAttempts,
		now.Add(Duration).UnixMilli(),
		r.cfg.TTL.Milliseconds(),
	}
	res, err := failScript.Run(ctx, r.client, []string{r.key(key)}, args...).Slice()
	if err != nil {
		return State{}, fmt.Errorf("redis fail: %w", err)
	}
	if len(res) != 2 {
		return State{}, fmt.Errorf("redis fail: unexpected reply %v", res)
	}

	attempts, ok := res[0].(int64)
	if !ok {
		return State{}, fmt.Errorf("redis fail: unexpected attempts %v", res[0])
	}
	raw, _ := res[1].(string)
	until, err := parseUntil(raw)
	if err != nil {
		return State{}, err
	}

	return State{Attempts: int(attempts), LockoutUntil: until}, nil
}

func (r *RedisStore) Clear(ctx context.Context, key Key) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// key length-prefixes the session, which is chosen by the client and may
// contain the separator.
func (r *RedisStore) key(key Key) string {
	id := fmt.Sprintf("%d:%s:%s", len(key.Session), key.Session, key.Username)
	if r.cfg.KeyPrefix == "" {
		return id
	}
	return r.cfg.KeyPrefix + ":" + id
}

func parseUntil(v string) (time.Time, error) {
	if v == "" || v == "0" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse lockout_until: %w", err)
	}
	return time.UnixMilli(ms), nil
}

var _ Store = (*RedisStore)(nil)
