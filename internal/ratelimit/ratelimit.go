package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=ratelimit.go -destination=mock_ratelimit.go -package=ratelimit

// Result is the outcome of one Allow call
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// tokenBucket refills at rate tokens per second up to burst and takes one
// token per call. Time comes from the Redis server so every instance shares
// the same clock.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])

local t = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

local state = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = burst
  ts = now
end

tokens = math.min(burst, tokens + math.max(0, now - ts) * rate / 1000)

local allowed = 0
local retry = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
else
  retry = math.ceil((1 - tokens) * 1000 / rate)
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', now)
redis.call('PEXPIRE', key, math.ceil(burst * 1000 / rate) + 1000)

return {allowed, math.floor(tokens), retry}
`)

// RedisLimiter is a token bucket per key held in Redis and shared by all
// server instances
type RedisLimiter struct {
	client redis.Scripter
	rate   float64
	burst  int
	prefix string
}

// NewRedisLimiter allows rate requests per second per key with bursts of up
// to burst requests
func NewRedisLimiter(client redis.Scripter, rate float64, burst int, prefix string) (*RedisLimiter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("ratelimit: rate must be positive, got %v", rate)
	}
	if burst < 1 {
		burst = 1
	}
	return &RedisLimiter{client: client, rate: rate, burst: burst, prefix: prefix}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	vals, err := tokenBucket.Run(ctx, l.client, []string{l.prefix + key}, l.rate, l.burst).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: failed to evaluate bucket for %s: %w", key, err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script reply %v", vals)
	}
	return Result{
		Allowed:    vals[0] == 1,
		Remaining:  int(vals[1]),
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// Unlimited allows every call
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (Result, error) {
	return Result{Allowed: true, Remaining: -1}, nil
}
