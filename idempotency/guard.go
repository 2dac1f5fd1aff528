// Package idempotency tracks which signal keys have already been accepted,
// giving the gateway its at-most-once guarantee.
package idempotency

import (
	"sync"
	"time"
)

// DefaultRetention is how long an admitted key stays live.
const DefaultRetention = time.Hour

// Guard records admitted idempotency keys for a retention window. It is
// safe for concurrent use: the duplicate check and the insert happen under
// one critical section, so of any callers racing on the same key exactly
// one is admitted.
type Guard struct {
	mu        sync.Mutex
	retention time.Duration
	now       func() time.Time
	seen      map[string]time.Time
}

// NewGuard returns a Guard with the given retention window. A
// non-positive retention falls back to DefaultRetention.
func NewGuard(retention time.Duration) *Guard {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Guard{
		retention: retention,
		now:       time.Now,
		seen:      make(map[string]time.Time),
	}
}

// Admit reports whether the key may proceed. An empty key always passes and
// is never recorded. A non-empty key is rejected if a live record exists,
// otherwise recorded with the current time and admitted. Expired records
// are swept lazily here; there is no background task.
func (g *Guard) Admit(key string) bool {
	if key == "" {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweepLocked(now)

	if _, live := g.seen[key]; live {
		return false
	}
	g.seen[key] = now
	return true
}

// Len returns the number of live records.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweepLocked(g.now())
	return len(g.seen)
}

// sweepLocked drops expired records. Callers hold g.mu.
func (g *Guard) sweepLocked(now time.Time) {
	for k, stamped := range g.seen {
		if now.Sub(stamped) > g.retention {
			delete(g.seen, k)
		}
	}
}
