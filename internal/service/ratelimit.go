package service

import (
	"sync"
	"time"
)

const (
	bucketIdleTTL    = 10 * time.Minute
	bucketSweepEvery = 5 * time.Minute
)

// UploadLimiter is an in-memory per-client token bucket guarding the upload
// routes, since every accepted upload is held in memory and rewritten to
// storage. It is safe for concurrent use.
type UploadLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewUploadLimiter creates a limiter allowing bursts of capacity uploads per
// client, refilling at rate per second. Idle clients are swept by a
// background goroutine until Stop is called.
func NewUploadLimiter(rate, capacity float64) *UploadLimiter {
	l := newUploadLimiter(rate, capacity, time.Now)
	go l.sweep()
	return l
}

func newUploadLimiter(rate, capacity float64, now func() time.Time) *UploadLimiter {
	return &UploadLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      now,
		stop:     make(chan struct{}),
	}
}

// Allow reports whether client may upload now, consuming one token if so.
func (l *UploadLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.buckets[client] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*l.rate, l.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Stop ends the sweeping goroutine.
func (l *UploadLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *UploadLimiter) sweep() {
	ticker := time.NewTicker(bucketSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *UploadLimiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-bucketIdleTTL)
	for client, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, client)
		}
	}
}
