package auth

import (
	"sync"
	"time"
)

// LoginRateLimiter tracks failed login attempts per client IP with a sliding
// window and a fixed block period once the limit is hit. State lives in
// process memory, so limits apply per instance.
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	blockedAt   map[string]time.Time
	maxAttempts int
	window      time.Duration
	blockPeriod time.Duration
	now         func() time.Time
}

func NewLoginRateLimiter(maxAttempts int, window, blockPeriod time.Duration) *LoginRateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if blockPeriod <= 0 {
		blockPeriod = 30 * time.Minute
	}
	return &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		blockedAt:   make(map[string]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		blockPeriod: blockPeriod,
		now:         time.Now,
	}
}

// Allow reports whether the key may attempt a login. When blocked, the second
// return value is the time remaining on the block.
func (l *LoginRateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if blockedAt, ok := l.blockedAt[key]; ok {
		remaining := l.blockPeriod - now.Sub(blockedAt)
		if remaining > 0 {
			return false, remaining
		}
		delete(l.blockedAt, key)
		delete(l.attempts, key)
	}

	return true, 0
}

// RecordFailure registers a failed attempt and starts the block once the
// window holds maxAttempts failures.
func (l *LoginRateLimiter) RecordFailure(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.attempts[key][:0]
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	l.attempts[key] = kept

	if len(kept) >= l.maxAttempts {
		l.blockedAt[key] = now
	}
}

// RecordSuccess clears all state for the key.
func (l *LoginRateLimiter) RecordSuccess(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, key)
	delete(l.blockedAt, key)
}
