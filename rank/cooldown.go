package rank

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCooldown is the minimum gap between two XP awards for one member.
const DefaultCooldown = 60 * time.Second

type cooldownKey struct {
	guildID string
	userID  string
}

// CooldownGate remembers the last award time per (guild, user). Entries live in
// a bounded LRU; losing one only makes the next message look like a first one.
type CooldownGate struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewCooldownGate creates a gate holding at most size entries.
func NewCooldownGate(size int) (*CooldownGate, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cooldown cache: %w", err)
	}
	return &CooldownGate{cache: cache}, nil
}

// TryAcquire checks whether userID may earn XP in guildID at now. When the last
// award is less than cooldown ago it returns false and changes nothing,
// otherwise it records now and returns true.
func (g *CooldownGate) TryAcquire(guildID, userID string, now time.Time, cooldown time.Duration) bool {
	key := cooldownKey{guildID: guildID, userID: userID}

	g.mu.Lock()
	defer g.mu.Unlock()

	if v, ok := g.cache.Get(key); ok {
		last := v.(time.Time)
		// A clock that went backwards also lands here, so timestamps never regress.
		if now.Sub(last) < cooldown {
			return false
		}
	}

	g.cache.Add(key, now)
	return true
}

// Release undoes a TryAcquire made at at, so the member's next message is
// accepted again. A newer acquisition for the same member is left alone.
func (g *CooldownGate) Release(guildID, userID string, at time.Time) {
	key := cooldownKey{guildID: guildID, userID: userID}

	g.mu.Lock()
	defer g.mu.Unlock()

	if v, ok := g.cache.Peek(key); ok && v.(time.Time).Equal(at) {
		g.cache.Remove(key)
	}
}

// Purge drops entries whose last award is more than maxIdle before now and
// returns how many were removed.
func (g *CooldownGate) Purge(now time.Time, maxIdle time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for _, k := range g.cache.Keys() {
		v, ok := g.cache.Peek(k)
		if !ok {
			continue
		}
		if now.Sub(v.(time.Time)) > maxIdle {
			g.cache.Remove(k)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked members.
func (g *CooldownGate) Len() int {
	return g.cache.Len()
}
