package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiterBurstAndRefill(t *testing.T) {
	l := NewKeyedLimiter(2, 1)
	defer l.Stop()

	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("u1"))
	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))

	// One second refills one token
	now = now.Add(time.Second)
	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
}

func TestKeyedLimiterIsolatesKeys(t *testing.T) {
	l := NewKeyedLimiter(1, 0.1)
	defer l.Stop()

	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
	assert.True(t, l.Allow("u2"))
}

func TestKeyedLimiterCapsAtBurst(t *testing.T) {
	l := NewKeyedLimiter(2, 10)
	defer l.Stop()

	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("u1"))

	// A long idle period refills at most up to the burst
	now = now.Add(time.Hour)
	assert.True(t, l.Allow("u1"))
	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
}
