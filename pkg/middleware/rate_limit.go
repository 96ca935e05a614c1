package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/blesswrld/codesync/backend/go-services/pkg/metrics"
)

// idleLimiterTTL is how long an unused caller bucket is kept.
const idleLimiterTTL = 10 * time.Minute

type callerBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// callerLimiters holds one token bucket per caller key.
type callerLimiters struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	buckets map[string]*callerBucket
	swept   time.Time
}

func newCallerLimiters(rps float64, burst int) *callerLimiters {
	return &callerLimiters{rps: rate.Limit(rps), burst: burst, buckets: map[string]*callerBucket{}}
}

func (l *callerLimiters) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.swept) > idleLimiterTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > idleLimiterTTL {
				delete(l.buckets, k)
			}
		}
		l.swept = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &callerBucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

// RateLimitMiddleware enforces a token bucket per caller: the authenticated
// identity when the auth middleware ran first, otherwise the client IP.
// rps is the refill rate, burst the bucket size.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiters := newCallerLimiters(rps, burst)
	return func(c *gin.Context) {
		now := time.Now()
		lim := limiters.get(rateKey(c), now)
		if !lim.AllowN(now, 1) {
			retry := 1
			if rps > 0 {
				retry = int(math.Ceil(1 / rps))
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
