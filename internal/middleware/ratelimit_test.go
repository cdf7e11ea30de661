package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewInMemoryRateLimiter(3, time.Minute)
	require.True(t, l.Allow("1.2.3.4"))
	require.True(t, l.Allow("1.2.3.4"))
	require.True(t, l.Allow("1.2.3.4"))
	require.False(t, l.Allow("1.2.3.4"))
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewInMemoryRateLimiter(1, time.Minute)
	require.True(t, l.Allow("1.2.3.4"))
	require.False(t, l.Allow("1.2.3.4"))
	require.True(t, l.Allow("5.6.7.8"))
}

func TestWindowExpires(t *testing.T) {
	l := NewInMemoryRateLimiter(1, 10*time.Millisecond)
	require.True(t, l.Allow("1.2.3.4"))
	require.False(t, l.Allow("1.2.3.4"))
	time.Sleep(20 * time.Millisecond)
	require.True(t, l.Allow("1.2.3.4"))
}
