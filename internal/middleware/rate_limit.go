package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"encounters-server/internal/shared/config"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/shared/response"

	"golang.org/x/time/rate"
)

// RateLimiter hands each client its own token bucket. Authenticated
// requests are keyed by token subject, anonymous ones by client IP.
type RateLimiter struct {
	config     config.RateLimitConfig
	trustProxy bool
	clients    map[string]*rate.Limiter
	mu         sync.Mutex
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewRateLimiter(cfg config.RateLimitConfig, trustProxy bool) *RateLimiter {
	rl := &RateLimiter{
		config:     cfg,
		trustProxy: trustProxy,
		clients:    make(map[string]*rate.Limiter),
		stop:       make(chan struct{}),
	}

	if cfg.Enabled {
		go rl.cleanupClients(time.Minute)
	}

	return rl
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.clients[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
		rl.clients[key] = limiter
	}
	return limiter
}

func (rl *RateLimiter) cleanupClients(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

// evictIdle drops buckets that have refilled completely.
func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, limiter := range rl.clients {
		if limiter.TokensAt(now) >= float64(rl.config.BurstSize) {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := clientKey(r, rl.trustProxy)
		limiter := rl.getLimiter(key)

		logger := slog.With(
			"middleware", "rate_limit",
			"client", key,
			"method", r.Method,
			"path", r.URL.Path,
		)

		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			response.Error(w, r, logger, errors.RateLimited("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request, trustProxy bool) string {
	if claims := GetUserFromContext(r); claims != nil && claims.Subject != "" {
		return "sub:" + claims.Subject
	}
	return "ip:" + getClientIP(r, trustProxy)
}

func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// first entry is the client
			if i := strings.IndexByte(xff, ','); i != -1 {
				return strings.TrimSpace(xff[:i])
			}
			return xff
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
