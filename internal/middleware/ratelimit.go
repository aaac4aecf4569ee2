package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimit limits requests per client IP to the configured number per
// fixed window, counted in Redis. Without Redis every request passes.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl := m.cfg.Security.RateLimiting
		if !rl.Enabled || m.counter == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := fmt.Sprintf("ratelimit:%s", m.clientIP(r))

		count, err := m.counter.Incr(ctx, key)
		if err != nil {
			m.log.Error().Err(err).Msg("failed to increment rate limit counter")
			next.ServeHTTP(w, r)
			return
		}

		// Set expiry on first request
		if count == 1 {
			if err := m.counter.Expire(ctx, key, rl.Window); err != nil {
				m.log.Warn().Err(err).Msg("failed to set rate limit window")
			}
		}

		ttl, err := m.counter.TTL(ctx, key)
		if err != nil {
			m.log.Warn().Err(err).Msg("failed to read rate limit window")
			ttl = rl.Window
		} else if ttl <= 0 {
			// A key without expiry would never reset
			if err := m.counter.Expire(ctx, key, rl.Window); err != nil {
				m.log.Warn().Err(err).Msg("failed to set rate limit window")
			}
			ttl = rl.Window
		}
		resetTime := time.Now().Add(ttl).Unix()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, rl.Limit-int(count))))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))

		if int(count) > rl.Limit {
			retryAfter := int64((ttl + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":"rate_limit_exceeded","message":"Too many requests. Please try again later."}}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
