package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowBurstPerKey(t *testing.T) {
	kl := New(1, 2, time.Minute)
	now := time.Unix(1000, 0)
	kl.now = func() time.Time { return now }

	require.True(t, kl.Allow("a"))
	require.True(t, kl.Allow("a"))
	require.False(t, kl.Allow("a"))

	require.True(t, kl.Allow("b"))

	now = now.Add(time.Second)
	require.True(t, kl.Allow("a"))
}

func TestSweep(t *testing.T) {
	kl := New(1, 1, time.Minute)
	now := time.Unix(1000, 0)
	kl.now = func() time.Time { return now }

	kl.Allow("old")

	now = now.Add(2 * time.Minute)
	kl.Allow("fresh")

	require.Equal(t, 1, kl.Sweep())
	require.Len(t, kl.entries, 1)
	require.Contains(t, kl.entries, "fresh")
}
