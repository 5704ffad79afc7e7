package middleware

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Dedup remembers recently seen message keys so a redelivered gateway event
// credits activity points only once. Memory is bounded by capacity and every
// key expires after ttl.
type Dedup struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func NewDedup(capacity int, ttl time.Duration) *Dedup {
	return &Dedup{seen: expirable.NewLRU[string, struct{}](capacity, nil, ttl)}
}

// MessageKey builds the dedup key for a message.
func MessageKey(messageID, authorID string) string {
	return messageID + "_" + authorID
}

// FirstSeen reports whether key is new and records it.
func (d *Dedup) FirstSeen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(key) {
		return false
	}
	d.seen.Add(key, struct{}{})
	return true
}

func (d *Dedup) Len() int {
	return d.seen.Len()
}
