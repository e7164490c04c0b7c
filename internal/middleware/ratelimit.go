package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/utils"
)

// Limiter is a per-client-IP token bucket. Idle buckets are dropped by Sweep.
type Limiter struct {
	log      *slog.Logger
	every    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[string]*visitor
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLimiter allows perMinute requests per client with the given burst.
func NewLimiter(log *slog.Logger, perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		log:      log,
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		limiters: make(map[string]*visitor),
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	v, ok := l.limiters[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.every, l.burst)}
		l.limiters[key] = v
	}
	v.seen = time.Now()
	l.mu.Unlock()
	return v.lim.Allow()
}

// Sweep forgets clients not seen for idle.
func (l *Limiter) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, v := range l.limiters {
		if v.seen.Before(cutoff) {
			delete(l.limiters, k)
			n++
		}
	}
	return n
}

// Handler rejects over-limit clients with 429. Preflight requests pass free.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ip := remoteIP(r.RemoteAddr)
		if !l.Allow(ip) {
			l.log.Warn("rate limited", "remote", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			utils.Error(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
