package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/bytehatacademy/academy/internal/middleware"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
	Enabled           bool
}

// RateLimitConfigFromAppConfig reads the limiter settings.
func RateLimitConfigFromAppConfig(cfg *config.Config) *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerMinute: cfg.Security.RequestsPerMinute,
		BurstSize:         cfg.Security.BurstSize,
		Enabled:           cfg.Security.RateLimitEnabled,
	}
}

// RateLimiter implements token bucket rate limiting per client key.
type RateLimiter struct {
	buckets     map[string]*TokenBucket
	bucketMutex sync.RWMutex
	config      *RateLimitConfig
	logger      logging.Logger
	cleaner     *time.Ticker
	stopCleaner chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// TokenBucket represents a token bucket for rate limiting
type TokenBucket struct {
	tokens     int
	capacity   int
	refillRate int // tokens per minute
	lastRefill time.Time
	lastAccess time.Time
	mutex      sync.Mutex
}

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	ResetTime  time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config *RateLimitConfig, logger logging.Logger) *RateLimiter {
	if config == nil {
		config = &RateLimitConfig{
			RequestsPerMinute: 300,
			BurstSize:         60,
			Enabled:           true,
		}
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}

	rl := &RateLimiter{
		buckets:     make(map[string]*TokenBucket),
		config:      config,
		logger:      logger.WithComponent("ratelimit"),
		stopCleaner: make(chan struct{}),
		now:         time.Now,
	}

	rl.cleaner = time.NewTicker(5 * time.Minute)
	go rl.cleanupExpiredBuckets()

	return rl
}

// Check consumes one token for key, usually a client IP.
func (rl *RateLimiter) Check(key string) RateLimitResult {
	if !rl.config.Enabled {
		return RateLimitResult{
			Allowed:   true,
			Remaining: rl.config.BurstSize,
		}
	}

	return rl.getBucket(key).consume(rl.now())
}

// Allow is Check reduced to a yes/no answer.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.Check(key).Allowed
}

func (rl *RateLimiter) getBucket(key string) *TokenBucket {
	now := rl.now()

	rl.bucketMutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.bucketMutex.RUnlock()

	if !exists {
		rl.bucketMutex.Lock()
		// Double-check after acquiring write lock
		if bucket, exists = rl.buckets[key]; !exists {
			bucket = &TokenBucket{
				tokens:     rl.config.BurstSize,
				capacity:   rl.config.BurstSize,
				refillRate: rl.config.RequestsPerMinute,
				lastRefill: now,
			}
			rl.buckets[key] = bucket
		}
		rl.bucketMutex.Unlock()
	}

	bucket.mutex.Lock()
	bucket.lastAccess = now
	bucket.mutex.Unlock()
	return bucket
}

func (tb *TokenBucket) consume(now time.Time) RateLimitResult {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.refill(now)

	if tb.tokens > 0 {
		tb.tokens--
		return RateLimitResult{
			Allowed:   true,
			Remaining: tb.tokens,
			ResetTime: now.Add(time.Minute),
		}
	}

	retryAfter := time.Minute / time.Duration(tb.refillRate)
	return RateLimitResult{
		Allowed:    false,
		RetryAfter: retryAfter,
		ResetTime:  now.Add(retryAfter),
	}
}

func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	if elapsed < time.Second {
		return
	}

	tokensToAdd := int(elapsed.Minutes() * float64(tb.refillRate))
	if tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}
}

func (rl *RateLimiter) cleanupExpiredBuckets() {
	for {
		select {
		case <-rl.cleaner.C:
			rl.performCleanup()
		case <-rl.stopCleaner:
			rl.cleaner.Stop()
			return
		}
	}
}

// performCleanup drops buckets idle for ten minutes.
func (rl *RateLimiter) performCleanup() {
	rl.bucketMutex.Lock()
	defer rl.bucketMutex.Unlock()

	now := rl.now()
	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastAccess)
		bucket.mutex.Unlock()
		if idle > 10*time.Minute {
			delete(rl.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleaner) })
}

// Buckets is the number of tracked clients.
func (rl *RateLimiter) Buckets() int {
	rl.bucketMutex.RLock()
	defer rl.bucketMutex.RUnlock()
	return len(rl.buckets)
}

// RateLimitMiddleware creates HTTP middleware for rate limiting. Buckets
// are keyed by the address ips resolves; a nil ips keys on the peer.
func RateLimitMiddleware(limiter *RateLimiter, ips *middleware.ClientIP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ips.Resolve(r)
			result := limiter.Check(clientIP)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.config.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

			if !result.Allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
				limiter.logger.Warn(r.Context(),
					errors.NewRateLimitError(errors.ErrCodeRateLimited, "request rate exceeded"),
					"Rate limit exceeded",
					"client_ip", clientIP,
					"path", r.URL.Path,
					"method", r.Method)

				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
