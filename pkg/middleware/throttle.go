package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle is a per-client token bucket limiter for the admin panel.
type Throttle struct {
	rate            rate.Limit
	burst           int
	perMinute       int
	cleanupInterval time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	done    chan struct{}
	closed  bool
}

func NewThrottle(requestsPerMinute, burst int, cleanupInterval time.Duration) *Throttle {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	t := &Throttle{
		rate:            rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:           burst,
		perMinute:       requestsPerMinute,
		cleanupInterval: cleanupInterval,
		buckets:         make(map[string]*bucket),
		done:            make(chan struct{}),
	}
	go t.cleanup()
	return t
}

// Allow takes a token for key and reports the remaining tokens and, when
// denied, how long until the next token.
func (t *Throttle) Allow(key string) (bool, int, time.Duration) {
	t.mu.Lock()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.buckets[key] = b
	}
	b.lastSeen = time.Now()
	t.mu.Unlock()

	allowed := b.limiter.Allow()
	remaining := int(math.Max(0, math.Floor(b.limiter.Tokens())))

	var retryAfter time.Duration
	if !allowed {
		reservation := b.limiter.Reserve()
		retryAfter = reservation.Delay()
		reservation.Cancel()
	}
	return allowed, remaining, retryAfter
}

func (t *Throttle) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.done)
	}
}

func (t *Throttle) cleanup() {
	ticker := time.NewTicker(t.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * t.cleanupInterval)
			t.mu.Lock()
			for key, b := range t.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(t.buckets, key)
				}
			}
			t.mu.Unlock()
		}
	}
}

// Handler keys clients by IP and sets X-RateLimit headers on every response.
func (t *Throttle) Handler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		allowed, remaining, retryAfter := t.Allow(key)

		c.Set("X-RateLimit-Limit", strconv.Itoa(t.perMinute))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retrySecs := int(retryAfter.Seconds()) + 1
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retrySecs))
			logger.Warn("Admin rate limit exceeded",
				zap.String("ip", key),
				zap.Int("retry_after", retrySecs),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded",
			})
		}

		return c.Next()
	}
}
