// Package ratelimit throttles inbound updates per chat user so one user
// cannot starve the polling loop.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultLimit = rate.Limit(10)
	defaultBurst = 20

	cleanupEvery = time.Minute
	staleAfter   = 3 * time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerUser hands out one token bucket per owner id and drops buckets of
// users that have gone quiet.
type PerUser struct {
	mu       sync.Mutex
	visitors map[int64]*visitor
	limit    rate.Limit
	burst    int

	stop chan struct{}
}

func NewPerUser() *PerUser {
	l := &PerUser{
		visitors: make(map[int64]*visitor),
		limit:    defaultLimit,
		burst:    defaultBurst,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the user's next update may be processed now.
func (l *PerUser) Allow(ownerID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ownerID]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ownerID] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

// Close stops the background cleanup routine.
func (l *PerUser) Close() {
	close(l.stop)
}

// cleanupLoop removes old entries from the visitors map to prevent memory leaks.
func (l *PerUser) cleanupLoop() {
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for id, v := range l.visitors {
				if time.Since(v.lastSeen) > staleAfter {
					delete(l.visitors, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
