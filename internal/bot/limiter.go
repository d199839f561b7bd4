package bot

import (
	"sync"
	"time"
)

// bucket is a token bucket for a single user.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// KeyedLimiter rate-limits per key (sender ID). Each key gets its own
// token bucket with the configured burst and refill rate; idle buckets
// are pruned by a background janitor.
type KeyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   float64
	refill  float64 // tokens per second
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewKeyedLimiter creates a limiter allowing burst immediate requests
// per key, refilling at refillPerSec tokens per second.
func NewKeyedLimiter(burst int, refillPerSec float64) *KeyedLimiter {
	l := &KeyedLimiter{
		buckets: make(map[string]*bucket),
		burst:   float64(burst),
		refill:  refillPerSec,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Allow reports whether the request for key may proceed, consuming a
// token when it does.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastSeen).Seconds()
		b.tokens += elapsed * l.refill
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.lastSeen = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Stop terminates the janitor goroutine.
func (l *KeyedLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *KeyedLimiter) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := l.now().Add(-15 * time.Minute)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
