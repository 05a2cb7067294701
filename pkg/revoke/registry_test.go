package revoke

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRevokeAndCheck(t *testing.T) {
	r := NewRegistry()

	require.False(t, r.IsRevoked("token-a"))

	r.Revoke("token-a", time.Now().Add(time.Hour))

	require.True(t, r.IsRevoked("token-a"))
	require.False(t, r.IsRevoked("token-b"))
}

func TestRevoke_EmptyTokenIgnored(t *testing.T) {
	r := NewRegistry()
	r.Revoke("", time.Now().Add(time.Hour))
	require.Equal(t, 0, r.Len())
}

func TestRevoke_ZeroExpiryFallsBackToRetention(t *testing.T) {
	r := NewRegistry()
	r.Revoke("token-a", time.Time{})
	require.True(t, r.IsRevoked("token-a"))
}

func TestIsRevoked_ExpiredEntryTreatedAsAbsent(t *testing.T) {
	r := NewRegistry()
	r.Revoke("token-a", time.Now().Add(-time.Second))

	require.False(t, r.IsRevoked("token-a"), "expired token no longer needs blocking")
}

func TestSweep(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	r.Revoke("live", now.Add(time.Hour))
	r.Revoke("dead-1", now.Add(-time.Minute))
	r.Revoke("dead-2", now.Add(-time.Hour))

	removed := r.Sweep(now)
	require.Equal(t, 2, removed)
	require.Equal(t, 1, r.Len())
	require.True(t, r.IsRevoked("live"))
}

func TestConcurrentRevokeAndCheck(t *testing.T) {
	r := NewRegistry()
	expiry := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		token := fmt.Sprintf("token-%d", i)
		go func() {
			defer wg.Done()
			r.Revoke(token, expiry)
		}()
		go func() {
			defer wg.Done()
			_ = r.IsRevoked(token)
			_ = r.Sweep(time.Now())
		}()
	}
	wg.Wait()

	// A revoke that completed before the check must be observed.
	for i := range 50 {
		require.True(t, r.IsRevoked(fmt.Sprintf("token-%d", i)))
	}
}
