package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// LoginLimiter hands out one token bucket per login identity. Idle buckets expire with the cache.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	perMin   int
}

func NewLoginLimiter(attemptsPerMinute int) *LoginLimiter {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 5
	}
	return &LoginLimiter{
		limiters: cache.New(15*time.Minute, 5*time.Minute),
		perMin:   attemptsPerMinute,
	}
}

// Allow consumes one attempt for key (case-insensitive).
func (l *LoginLimiter) Allow(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))

	l.mu.Lock()
	defer l.mu.Unlock()

	if x, found := l.limiters.Get(key); found {
		lim := x.(*rate.Limiter)
		l.limiters.Set(key, lim, cache.DefaultExpiration)
		return lim.Allow()
	}

	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)
	l.limiters.Set(key, lim, cache.DefaultExpiration)
	return lim.Allow()
}
