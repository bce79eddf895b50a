package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Defaults sized for the booking form: a visitor clicking through the
// wizard generates a few requests per second at most, so anything past
// the burst is a script.
const (
	DefaultRatePerSecond = 5
	DefaultRateBurst     = 20
)

const visitorStaleAfter = 10 * time.Minute

// RateLimiter applies a per-IP token bucket across the public booking
// routes. Buckets refill continuously at rate tokens per second up to
// burst; each request costs one token.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	rate      float64
	burst     float64
	now       func() time.Time // replaced in tests
}

type visitor struct {
	tokens  float64
	touched time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per second
// with the given burst per IP. Non-positive arguments fall back to the
// defaults.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	if rate <= 0 {
		rate = DefaultRatePerSecond
	}
	if burst <= 0 {
		burst = DefaultRateBurst
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		burst:    float64(burst),
		now:      time.Now,
	}
}

// Allow reports whether a request from ip fits the budget.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{tokens: rl.burst}
		rl.visitors[ip] = v
	} else {
		v.tokens += now.Sub(v.touched).Seconds() * rl.rate
		if v.tokens > rl.burst {
			v.tokens = rl.burst
		}
	}
	v.touched = now

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

// sweep evicts idle visitors so the map cannot grow without bound.
// Runs inline under the lock at most once per stale window, which keeps
// the limiter goroutine-free.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < visitorStaleAfter {
		return
	}
	for ip, v := range rl.visitors {
		if now.Sub(v.touched) > visitorStaleAfter {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects over-budget requests with a 429 carrying the same
// {ok, errors} envelope the booking endpoint speaks, so the wizard can
// surface the message verbatim.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"errors":["Too many requests. Please try again in a moment."]}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys the bucket. chi's RealIP middleware has already folded
// X-Forwarded-For / X-Real-Ip into RemoteAddr; direct connections still
// carry a port to strip.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
