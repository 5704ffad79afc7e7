package middleware

import (
	"sync"
	"time"
)

// DefaultCooldowns are the per-user waits between uses of a command.
var DefaultCooldowns = map[string]time.Duration{
	"points":        3 * time.Second,
	"pointshistory": 5 * time.Second,
	"pointvalues":   5 * time.Second,
	"milestones":    5 * time.Second,
	"resume":        10 * time.Second,
	"event":         10 * time.Second,
	"linkedin":      10 * time.Second,
	"resource":      10 * time.Second,
}

type cooldownKey struct {
	userID  string
	command string
}

// Cooldown tracks the last use of each (user, command) pair.
// Commands without a configured duration are never limited.
type Cooldown struct {
	mu        sync.Mutex
	durations map[string]time.Duration
	lastUse   map[cooldownKey]time.Time
	now       func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewCooldown(durations map[string]time.Duration) *Cooldown {
	c := &Cooldown{
		durations: durations,
		lastUse:   make(map[cooldownKey]time.Time),
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Close stops the background cleanup goroutine. Call it on shutdown.
func (c *Cooldown) Close() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Allow records a use and returns true, or returns false with the remaining
// wait if the user is still cooling down.
func (c *Cooldown) Allow(userID, command string) (bool, time.Duration) {
	d, ok := c.durations[command]
	if !ok || d <= 0 {
		return true, 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := cooldownKey{userID: userID, command: command}
	if last, seen := c.lastUse[key]; seen {
		if wait := last.Add(d).Sub(now); wait > 0 {
			return false, wait
		}
	}
	c.lastUse[key] = now
	return true, 0
}

func (c *Cooldown) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cooldown) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, last := range c.lastUse {
		if !last.Add(c.durations[key.command]).After(now) {
			delete(c.lastUse, key)
		}
	}
}
