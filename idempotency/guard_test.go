package idempotency

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdmitEmptyKeyAlwaysPasses(t *testing.T) {
	t.Parallel()

	g := NewGuard(time.Hour)
	assert.True(t, g.Admit(""))
	assert.True(t, g.Admit(""))
	assert.Equal(t, 0, g.Len())
}

func TestAdmitRejectsDuplicate(t *testing.T) {
	t.Parallel()

	g := NewGuard(time.Hour)
	assert.True(t, g.Admit("sig-1"))
	assert.False(t, g.Admit("sig-1"))
	assert.True(t, g.Admit("sig-2"))
}

func TestAdmitExpiredRecordIsAbsent(t *testing.T) {
	t.Parallel()

	g := NewGuard(time.Hour)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	assert.True(t, g.Admit("sig-1"))

	now = now.Add(30 * time.Minute)
	assert.False(t, g.Admit("sig-1"))

	now = now.Add(31 * time.Minute)
	assert.True(t, g.Admit("sig-1"), "expired record must be overwritable")
}

func TestAdmitSweepsExpiredRecords(t *testing.T) {
	t.Parallel()

	g := NewGuard(time.Hour)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		assert.True(t, g.Admit(fmt.Sprintf("sig-%d", i)))
	}
	assert.Equal(t, 10, g.Len())

	now = now.Add(2 * time.Hour)
	assert.True(t, g.Admit("fresh"))
	assert.Equal(t, 1, g.Len())
}

func TestAdmitConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	g := NewGuard(time.Hour)

	const callers = 64
	var admitted int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.Admit("same-key") {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), admitted, "exactly one caller may win a key")
}

func TestNewGuardDefaultsRetention(t *testing.T) {
	t.Parallel()

	g := NewGuard(0)
	assert.Equal(t, DefaultRetention, g.retention)
}
