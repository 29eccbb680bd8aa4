package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"eventticketing/internal/delivery/http/helpers"
)

// Counter is a monotonically increasing counter with expiry, keyed by string.
// Implemented by RedisCounter in production and faked in tests.
type Counter interface {
	// Incr increments key and returns the new value. The ttl applies only
	// when this call creates the key.
	Incr(ctx context.Context, key string, ttl time.Duration) (count int64, err error)
}

// RedisCounter implements Counter on a Redis INCR + EXPIRE pair.
type RedisCounter struct {
	Client *redis.Client
}

func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.Client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// RateLimit enforces a fixed-window per-client limit of perMinute requests.
// Counter failures are logged and the request is let through; the limiter
// protects against abusive clients, it is not a correctness gate.
func RateLimit(counter Counter, perMinute int, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if counter == nil || perMinute <= 0 {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			window := time.Now().Unix() / 60
			key := "ratelimit:" + clientIP(r) + ":" + strconv.FormatInt(window, 10)
			count, err := counter.Incr(r.Context(), key, time.Minute)
			if err != nil {
				logger.Warn("rate limit counter unavailable", "err", err)
				next(w, r)
				return
			}
			if count > int64(perMinute) {
				helpers.WriteJSONError(w, http.StatusTooManyRequests, helpers.ErrCodeTooManyRequests, "rate limit exceeded")
				return
			}
			next(w, r)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
