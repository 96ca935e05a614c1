package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitMiddleware_Window(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	// a long window keeps both requests in the same bucket
	r := limitedRouter("user_alice", RedisRateLimitMiddleware(client, 0, 1, time.Hour))

	require.Equal(t, http.StatusOK, hit(r))
	require.Equal(t, http.StatusTooManyRequests, hit(r))

	// another caller has its own counter
	require.Equal(t, http.StatusOK, hit(limitedRouter("user_bob", RedisRateLimitMiddleware(client, 0, 1, time.Hour))))

	// the window key expires
	m.FastForward(time.Hour + 2*time.Second)
	require.Equal(t, http.StatusOK, hit(r))
}

func TestRedisRateLimitMiddleware_FailsOpen(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	r := limitedRouter("user_alice", RedisRateLimitMiddleware(client, 0, 1, time.Hour))
	m.Close()

	require.Equal(t, http.StatusOK, hit(r))
	require.Equal(t, http.StatusOK, hit(r))
}
