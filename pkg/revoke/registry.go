// Package revoke tracks token values that were invalidated before their
// natural expiry. The default Registry is an in-process expiring set: it is
// lost on restart, which is an accepted limitation of this deployment shape.
// Callers needing durable revocation can place a shared store behind the same
// interface the token codec consumes.
package revoke

import (
	"sync"
	"time"
)

// defaultRetention bounds entries recorded without a usable expiry so the set
// cannot grow forever on malformed input.
const defaultRetention = 24 * time.Hour

// Registry is a process-wide set of revoked token values. Entries expire at
// the token's own expiry, when blocking them no longer serves a purpose.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]time.Time)}
}

// Revoke records the token until expiresAt. A zero expiresAt falls back to a
// fixed retention window.
func (r *Registry) Revoke(token string, expiresAt time.Time) {
	if token == "" {
		return
	}
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(defaultRetention)
	}

	r.mu.Lock()
	r.entries[token] = expiresAt
	r.mu.Unlock()
}

// IsRevoked reports whether token is currently revoked. Entries past their
// retention are treated as absent; Sweep reclaims their memory.
func (r *Registry) IsRevoked(token string) bool {
	r.mu.RLock()
	expiresAt, ok := r.entries[token]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	return time.Now().Before(expiresAt)
}

// Sweep removes entries whose retention has passed and returns how many were
// dropped. Intended to be called periodically by a housekeeping worker.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, expiresAt := range r.entries {
		if !now.Before(expiresAt) {
			delete(r.entries, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, swept or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
