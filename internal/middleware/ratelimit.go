package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// windowCount is the state of one client's current window
type windowCount struct {
	count int64
	ttl   time.Duration
}

// RateLimitMiddleware implements a fixed-window limit using Redis counters.
// Identified callers are counted by user id, everyone else by client address.
// When Redis fails the request is let through.
func RateLimitMiddleware(redisClient redis.Cmdable, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := config.KeyPrefix + ":" + rateLimitClient(r)

			window, err := countRequest(r.Context(), redisClient, key, config.Window)
			if err != nil {
				logger.Error("Failed to count request for rate limiting",
					zap.Error(err),
					zap.String("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(int64(config.RequestsPerWindow)-window.count, 0)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window.ttl).Unix(), 10))

			if window.count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.Int64("count", window.count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				retryAfter := max(int(window.ttl.Round(time.Second).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// countRequest increments the window counter. A counter left without an
// expiry, for example after a crash between INCR and EXPIRE, gets one here.
func countRequest(ctx context.Context, rdb redis.Cmdable, key string, window time.Duration) (windowCount, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return windowCount{}, err
	}

	wc := windowCount{count: incr.Val(), ttl: ttl.Val()}
	if wc.ttl <= 0 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return windowCount{}, err
		}
		wc.ttl = window
	}
	return wc, nil
}

// rateLimitClient names the bucket a request is counted in. Ports are dropped
// so that new connections from one host share a bucket.
func rateLimitClient(r *http.Request) string {
	if caller := CallerFrom(r.Context()); caller.Identified() {
		return "user:" + caller.UserID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
