package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// ipLimiter holds the per-IP counters of one RateLimiter instance.
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
}

var (
	limiters   []*ipLimiter
	limitersMu sync.Mutex
)

// RateLimiter returns a per-IP window rate limiter. Each call gets its own
// counters, so sensitive write routes (settle, close) can stack a tighter
// instance on top of the global one.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := &ipLimiter{entries: make(map[string]*rateEntry)}
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		entry, exists := l.entries[ip]
		if !exists {
			entry = &rateEntry{}
			l.entries[ip] = entry
		}
		l.mu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		if purged := purge(time.Now()); purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
		}
	}
}

func purge(now time.Time) int {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	purged := 0
	for _, l := range limiters {
		l.mu.Lock()
		for ip, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		l.mu.Unlock()
	}
	return purged
}
