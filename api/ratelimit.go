package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const rateLimitWindow = time.Minute

// windowCounter counts hits for a key inside a fixed window.
type windowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounter struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

func newRedisCounter(rdb *redis.Client) redisCounter {
	return redisCounter{rdb: rdb, logger: log.With().Str("handlerName", "rateLimiter").Logger()}
}

// Hit increments key and starts its expiry on the first hit of a window. A
// failed expiry is logged; the count is still returned.
func (c redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.rdb.PExpire(ctx, key, window+time.Second).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("rate limit window expiry not set")
		}
	}
	return count, nil
}

// ConnectRedis parses a redis:// URL and verifies the server answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// rateLimiter caps requests per client IP per minute. Without a counter it
// lets everything through; counter errors fail open.
type rateLimiter struct {
	counter   windowCounter
	limit     int64
	now       func() time.Time
	responder Responder
	logger    zerolog.Logger
}

func newRateLimiter(counter windowCounter, perMinute int, now func() time.Time) rateLimiter {
	logger := log.With().Str("handlerName", "rateLimiter").Logger()
	return rateLimiter{
		counter:   counter,
		limit:     int64(perMinute),
		now:       now,
		responder: NewResponder(logger),
		logger:    logger,
	}
}

func (l rateLimiter) limitByIP(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l.counter == nil || l.limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			now := l.now()
			window := now.Unix() / int64(rateLimitWindow.Seconds())
			key := fmt.Sprintf("portal:rate_limit:%s:%s:%d", scope, ip, window)

			count, err := l.counter.Hit(r.Context(), key, rateLimitWindow)
			if err != nil {
				l.logger.Warn().Err(err).Msg("rate limit counter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if count > l.limit {
				windowEnd := time.Unix((window+1)*int64(rateLimitWindow.Seconds()), 0)
				retryAfter := windowEnd.Sub(now).Round(time.Second)
				if retryAfter < time.Second {
					retryAfter = time.Second
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				l.responder.WriteError(w, errs.NewRateLimitError(scope, retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. The RealIP middleware has
// already applied X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
