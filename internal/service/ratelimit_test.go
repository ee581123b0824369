package service

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestUploadLimiter_AllowsUpToCapacity(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newUploadLimiter(1, 3, clock.now) // rate=1/s, capacity=3

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("upload %d should be allowed (bucket not yet empty)", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("4th upload should be denied (bucket empty)")
	}
}

func TestUploadLimiter_Refills(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newUploadLimiter(0.5, 1, clock.now)

	if !l.Allow("k") {
		t.Fatal("first upload should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second upload should be denied")
	}

	clock.t = clock.t.Add(2 * time.Second)
	if !l.Allow("k") {
		t.Fatal("upload should be allowed after refill")
	}
}

func TestUploadLimiter_ClientsAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newUploadLimiter(0, 1, clock.now)

	if !l.Allow("a") {
		t.Fatal("a first upload should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("a second upload should be denied")
	}
	if !l.Allow("b") {
		t.Fatal("b has its own bucket")
	}
}

func TestUploadLimiter_EvictIdle(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newUploadLimiter(0, 1, clock.now)

	l.Allow("old")
	clock.t = clock.t.Add(bucketIdleTTL + time.Second)
	l.Allow("fresh")
	l.evictIdle()

	if _, ok := l.buckets["old"]; ok {
		t.Fatal("expected idle bucket to be evicted")
	}
	if _, ok := l.buckets["fresh"]; !ok {
		t.Fatal("expected fresh bucket to remain")
	}
}

func TestUploadLimiter_StopIsIdempotent(t *testing.T) {
	l := NewUploadLimiter(1, 1)
	l.Stop()
	l.Stop()
}
