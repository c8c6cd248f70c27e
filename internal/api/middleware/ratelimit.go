package middleware

import (
	"net"
	"net/http"
	"taskboard/internal/common"
	"taskboard/internal/platform/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit applies a fixed-window limit per client IP, backed by Redis so
// the window is shared across instances. If Redis is unreachable the
// request is allowed through; throttling is protection, not correctness.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "ratelimit:" + r.URL.Path + ":" + ip

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				logger.L.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, window)
			}
			if count > int64(limit) {
				common.RespondWithError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
