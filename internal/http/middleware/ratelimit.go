package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc maps a request to the identity its token bucket is keyed by.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP keys buckets by the caller resolved by Identity, falling back
// to the client IP for anonymous requests. Prefixes keep the two namespaces
// apart ("user:abc" vs "ip:203.0.113.7").
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get(userIDKey); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

// RateLimitOptions configures NewRateLimiter.
type RateLimitOptions struct {
	// RPS is the steady refill rate. RPS <= 0 disables limiting.
	RPS float64
	// Burst is the bucket size; values < 1 become 1.
	Burst int
	// Key selects the bucket; nil means KeyByUserOrIP.
	Key KeyFunc
	// Exempt lists routes (Gin full paths) that are never limited, e.g. the
	// long-lived /events stream and the /health probe.
	Exempt []string
	// IdleTTL evicts buckets unused for this long; <= 0 means 10 minutes.
	IdleTTL time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a process-local, per-identity token bucket limiter. Idle
// buckets are swept every sweepEvery lookups. Safe for concurrent use.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	key    KeyFunc
	exempt map[string]struct{}
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  int
}

const sweepEvery = 5000

// NewRateLimiter builds a limiter; install it with Handler.
func NewRateLimiter(opts RateLimitOptions) *RateLimiter {
	rl := &RateLimiter{
		limit:    rate.Limit(opts.RPS),
		burst:    max(opts.Burst, 1),
		key:      opts.Key,
		exempt:   set(opts.Exempt...),
		ttl:      opts.IdleTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
	if rl.key == nil {
		rl.key = KeyByUserOrIP()
	}
	if rl.ttl <= 0 {
		rl.ttl = 10 * time.Minute
	}
	return rl
}

// bucket returns the limiter for key. The sweep runs before the lookup so a
// stale bucket is dropped even when it is the one being asked for.
func (rl *RateLimiter) bucket(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= sweepEvery {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// Len reports the number of live buckets.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// IsRateBypass reports whether IdempotencyValidator flagged this request as a
// replay, which is served without spending a token.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler enforces the limits. A rejected request gets 429 rate_limited with
// a Retry-After header holding the whole seconds until a token is available.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 || IsRateBypass(c) {
			c.Next()
			return
		}
		if _, ok := rl.exempt[c.FullPath()]; ok {
			c.Next()
			return
		}

		now := rl.now()
		res := rl.bucket(rl.key(c), now).ReserveN(now, 1)
		delay := res.DelayFrom(now)
		if delay == 0 {
			c.Next()
			return
		}
		res.CancelAt(now)

		secs := int(math.Ceil(delay.Seconds()))
		c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
		abortJSON(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
	}
}
