package ratelimiting_test

import (
	"net/http/httptest"
	"testing"

	"github.com/JamesMReilly/shopgraph/internal/ratelimiting"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("burst is consumed per key", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewTokenBucketRateLimiter(
			ratelimiting.RefillPerSecond(0),
			ratelimiting.BurstSize(2),
		)
		defer stop()

		require.True(t, limiter.Consume("a"))
		require.True(t, limiter.Consume("a"))
		require.False(t, limiter.Consume("a"))

		// Unrelated keys have their own bucket
		require.True(t, limiter.Consume("b"))
	})
}

func TestRequestBasedRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("ip key strips the port", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("POST", "/graphql", nil)
		r.RemoteAddr = "192.0.2.1:12345"

		require.Equal(t, "ip: 192.0.2.1", ratelimiting.IPKeyFunc(r))
	})

	t.Run("user id key falls back when missing", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("POST", "/graphql", nil)
		require.Equal(t, "user-id: <missing>", ratelimiting.UserIDKeyFunc(r))

		r.Header.Set("X-User-Id", "user-1")
		require.Equal(t, "user-id: user-1", ratelimiting.UserIDKeyFunc(r))
	})

	t.Run("consume uses the key func", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewTokenBucketRateLimiter(
			ratelimiting.RefillPerSecond(0),
			ratelimiting.BurstSize(1),
		)
		defer stop()

		requestLimiter := ratelimiting.NewRequestBasedRateLimiter(limiter, ratelimiting.IPKeyFunc)

		r := httptest.NewRequest("POST", "/graphql", nil)
		r.RemoteAddr = "192.0.2.1:12345"

		require.True(t, requestLimiter.Consume(r))
		require.False(t, requestLimiter.Consume(r))

		other := httptest.NewRequest("POST", "/graphql", nil)
		other.RemoteAddr = "192.0.2.2:12345"
		require.True(t, requestLimiter.Consume(other))
	})
}
