package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vibelang/vibe/am"
	"github.com/vibelang/vibe/logger"
)

// clientLimiter keeps one token bucket per client address
type clientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(cfg am.RateLimitConfig) *clientLimiter {
	l := &clientLimiter{clients: make(map[string]*limiterEntry)}
	l.configure(cfg)
	return l
}

// configure changes the limits. Existing buckets are dropped so every
// client starts fresh under the new limits.
func (l *clientLimiter) configure(cfg am.RateLimitConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = rate.Limit(cfg.RequestsPerSecond)
	l.burst = cfg.Burst
	l.clients = make(map[string]*limiterEntry)
}

// reserve takes a token for client at now. It returns zero when the
// request may proceed, otherwise how long the client should wait.
func (l *clientLimiter) reserve(client string, now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit <= 0 {
		return 0
	}

	entry, ok := l.clients[client]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return delay
	}
	return 0
}

// prune drops buckets idle since before now-ttl
func (l *clientLimiter) prune(now time.Time, ttl time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for client, entry := range l.clients {
		if now.Sub(entry.lastSeen) > ttl {
			delete(l.clients, client)
			removed++
		}
	}
	return removed
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// clientKey identifies the caller by remote IP
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimitMiddleware answers 429 with Retry-After once a client exhausts
// its bucket
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if wait := s.limiter.reserve(client, time.Now()); wait > 0 {
			seconds := int(math.Ceil(wait.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			s.logger.Debugw("Rate limited",
				logger.FieldClient, client,
				logger.FieldPath, r.URL.Path,
				"retry_after", seconds,
			)
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

// runLimiterJanitor prunes idle buckets until the server stops
func (s *Server) runLimiterJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.limiter.prune(now, limiterIdleTTL); n > 0 {
				s.logger.Debugw("Pruned idle rate limiters", logger.FieldCount, n)
			}
		}
	}
}
