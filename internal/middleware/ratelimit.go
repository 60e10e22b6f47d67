package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor holds a per-IP rate limiter and the time it was last seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter returns a per-IP token-bucket limiter allowing perSecond
// requests with the given burst. Over-limit requests get 429. Visitors idle
// for three minutes are forgotten. Wire it after chi's RealIP.
func NewRateLimiter(perSecond float64, burst int) func(http.Handler) http.Handler {
	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastPrune = time.Now()
	)

	allow := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastPrune) > time.Minute {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > 3*time.Minute {
					delete(visitors, k)
				}
			}
			lastPrune = now
		}

		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
			visitors[ip] = v
		}
		v.lastSeen = now
		return v.limiter.Allow()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr when there is one.
func clientIP(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
