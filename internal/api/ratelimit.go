package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL   = 5 * time.Minute
	limiterSweepTick = time.Minute
)

// rateLimiterMap manages per-IP rate limiters with automatic cleanup
type rateLimiterMap struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	done     chan struct{}
	once     sync.Once
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiterMap() *rateLimiterMap {
	m := &rateLimiterMap{
		limiters: make(map[string]*ipLimiter),
		done:     make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

func (m *rateLimiterMap) getLimiter(ip string, rps, burst int) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.limiters[ip]
	if !exists {
		if burst <= 0 {
			burst = rps
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
		m.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

func (m *rateLimiterMap) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}

// sweep drops limiters idle for longer than ttl.
func (m *rateLimiterMap) sweep(now time.Time, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ip, entry := range m.limiters {
		if now.Sub(entry.lastSeen) > ttl {
			delete(m.limiters, ip)
		}
	}
}

func (m *rateLimiterMap) cleanupLoop() {
	ticker := time.NewTicker(limiterSweepTick)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			m.sweep(now, limiterIdleTTL)
		case <-m.done:
			return
		}
	}
}

func (m *rateLimiterMap) stop() {
	m.once.Do(func() { close(m.done) })
}

// clientIP returns the RemoteAddr host. X-Forwarded-For is only honoured
// when trustProxy is set, since any client can send it.
func clientIP(r *http.Request, trustProxy bool) string {
	addr := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); trustProxy && forwarded != "" {
		addr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
