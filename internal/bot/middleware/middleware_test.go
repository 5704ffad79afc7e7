package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownPerUserAndCommand(t *testing.T) {
	c := NewCooldown(map[string]time.Duration{"points": 3 * time.Second})
	defer c.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ok, _ := c.Allow("u1", "points")
	assert.True(t, ok)

	ok, wait := c.Allow("u1", "points")
	assert.False(t, ok)
	assert.Equal(t, 3*time.Second, wait)

	ok, _ = c.Allow("u2", "points")
	assert.True(t, ok, "other users are independent")

	ok, _ = c.Allow("u1", "shop")
	assert.True(t, ok, "commands without a cooldown are never limited")
	ok, _ = c.Allow("u1", "shop")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, wait = c.Allow("u1", "points")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	now = now.Add(time.Second)
	ok, _ = c.Allow("u1", "points")
	assert.True(t, ok)
}

func TestCooldownSweep(t *testing.T) {
	c := NewCooldown(DefaultCooldowns)
	defer c.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	c.Allow("u1", "resume")
	c.Allow("u1", "points")

	now = now.Add(5 * time.Second)
	c.sweep()
	assert.Len(t, c.lastUse, 1)

	now = now.Add(10 * time.Second)
	c.sweep()
	assert.Empty(t, c.lastUse)
}

func TestDedupFirstSeen(t *testing.T) {
	d := NewDedup(2, time.Minute)

	assert.True(t, d.FirstSeen(MessageKey("m1", "u1")))
	assert.False(t, d.FirstSeen(MessageKey("m1", "u1")))
	assert.True(t, d.FirstSeen(MessageKey("m1", "u2")))
}

func TestDedupBoundedByCapacity(t *testing.T) {
	d := NewDedup(3, time.Minute)
	for i := 0; i < 10; i++ {
		d.FirstSeen(fmt.Sprintf("m%d_u", i))
	}
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.FirstSeen("m0_u"), "oldest keys are evicted")
}

func TestDedupExpires(t *testing.T) {
	d := NewDedup(10, 20*time.Millisecond)
	assert.True(t, d.FirstSeen("k"))
	assert.Eventually(t, func() bool { return d.Len() == 0 }, time.Second, 10*time.Millisecond)
	assert.True(t, d.FirstSeen("k"))
}

func TestRecoverFromPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		defer RecoverFromPanic()
		panic("boom")
	})
}
