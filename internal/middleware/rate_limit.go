package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimitResult describes the state of one client's quota after a request
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether the client identified by key may make a request
type Limiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

// RateLimiter is a fixed window limiter backed by Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:api"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Allow counts a request against the current window
func (rl *RateLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := rl.windowKey(key, windowStart)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit check: %w", err)
	}

	count := int(incrCmd.Val())
	return RateLimitResult{
		Allowed:   count <= rl.config.Limit,
		Limit:     rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

func (rl *RateLimiter) windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())
}

// LocalRateLimiter is an in-process token bucket per client, used when no
// Redis server is available. Buckets refill at Limit tokens per Window.
type LocalRateLimiter struct {
	config RateLimitConfig
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalRateLimiter creates an in-process limiter
func NewLocalRateLimiter(config RateLimitConfig) *LocalRateLimiter {
	return &LocalRateLimiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes a token from the client's bucket
func (l *LocalRateLimiter) Allow(_ context.Context, key string) (RateLimitResult, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every(), l.config.Limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	remaining := max(int(math.Floor(tokens)), 0)

	// Time until the bucket is full again.
	missing := float64(l.config.Limit) - tokens
	reset := now.Add(time.Duration(missing * float64(l.interval())))

	return RateLimitResult{
		Allowed:   allowed,
		Limit:     l.config.Limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

func (l *LocalRateLimiter) interval() time.Duration {
	return l.config.Window / time.Duration(l.config.Limit)
}

func (l *LocalRateLimiter) every() rate.Limit {
	return rate.Every(l.interval())
}

// sweep drops buckets idle for longer than a window; they would be full anyway
func (l *LocalRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.config.Window {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.config.Window {
			delete(l.buckets, key)
		}
	}
}

// RateLimitMiddleware returns a Gin middleware that enforces limiter per
// client IP. Limiter failures are logged and the request is let through.
func RateLimitMiddleware(limiter Limiter, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			if logger != nil {
				logger.Warn().Err(err).Str("client_ip", key).Msg("Rate limit check failed")
			}
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))

		if !res.Allowed {
			retryAfter := max(int(math.Ceil(time.Until(res.Reset).Seconds())), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
