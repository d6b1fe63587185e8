package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds configuration for the rate limiter.
type Config struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// Limit is the number of requests allowed per window, at least 1.
func (c Config) Limit() int64 {
	return max(1, int64(math.Floor(c.RequestsPerSecond*float64(c.WindowSeconds))))
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	Count   int64 // requests seen in the current window, including this one
	Limit   int64
	Window  time.Duration
}

// INCR and EXPIRE in one round trip so a crash between them cannot leave
// a counter without a TTL.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// Limiter is a fixed-window request counter shared through Redis.
type Limiter struct {
	client *redis.Client
	config Config
	log    *zap.Logger
}

// New creates a Limiter. A nil *Limiter allows everything.
func New(client *redis.Client, config Config, log *zap.Logger) *Limiter {
	return &Limiter{client: client, config: config, log: log}
}

// Allow counts a request from client against scope. Redis errors fail
// open: the request is allowed and the error is returned for logging.
func (l *Limiter) Allow(ctx context.Context, scope, client string) (Decision, error) {
	if l == nil || !l.config.Enabled {
		return Decision{Allowed: true}, nil
	}

	d := Decision{
		Limit:  l.config.Limit(),
		Window: time.Duration(l.config.WindowSeconds) * time.Second,
	}

	key := fmt.Sprintf("ratelimit:%s:%s", scope, client)
	count, err := fixedWindow.Run(ctx, l.client, []string{key}, l.config.WindowSeconds).Int64()
	if err != nil {
		l.log.Warn("rate limiter redis error, allowing request",
			zap.String("client", client),
			zap.String("scope", scope),
			zap.Error(err),
		)
		d.Allowed = true
		return d, err
	}

	d.Count = count
	d.Allowed = count <= d.Limit
	if !d.Allowed {
		l.log.Warn("rate limit exceeded",
			zap.String("client", client),
			zap.String("scope", scope),
			zap.Int64("count", count),
			zap.Int64("limit", d.Limit),
		)
	}
	return d, nil
}
