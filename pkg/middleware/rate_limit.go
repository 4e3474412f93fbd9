package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/infra/prometheus"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const rateLimitKeyPattern = "ratelimit:per_ip:%s"

var clientIPHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"True-Client-IP",
	"CF-Connecting-IP",
}

type RateLimitOpts struct {
	TimeProvider func() time.Time
	UuidProvider func() uuid.UUID
}

type rateLimitMiddleware struct {
	logger       *logrus.Logger
	redis        *redis.Client
	limit        int
	window       time.Duration
	timeProvider func() time.Time
	uuidProvider func() uuid.UUID
}

func NewRateLimitMiddleware(
	logger *logrus.Logger,
	redisClient *redis.Client,
	limit int,
	window time.Duration,
	opts *RateLimitOpts,
) Middleware {
	m := &rateLimitMiddleware{
		logger:       logger,
		redis:        redisClient,
		limit:        limit,
		window:       window,
		timeProvider: time.Now,
		uuidProvider: uuid.New,
	}
	if opts != nil && opts.TimeProvider != nil {
		m.timeProvider = opts.TimeProvider
	}
	if opts != nil && opts.UuidProvider != nil {
		m.uuidProvider = opts.UuidProvider
	}
	return m
}

// Middleware keeps a sliding window per client IP in a redis sorted set.
// A redis failure lets the request through.
func (m *rateLimitMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := fmt.Sprintf(rateLimitKeyPattern, clientIP(c))
		now := m.timeProvider()
		windowStart := now.Add(-m.window).Unix()

		count, err := m.redis.ZCount(ctx, key,
			strconv.FormatInt(windowStart, 10),
			strconv.FormatInt(now.Unix(), 10)).Result()
		if err != nil {
			m.logger.WithError(err).Warn("rate limit check failed")
			return c.Next()
		}

		remaining := int64(m.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(m.window).Unix(), 10))

		if count >= int64(m.limit) {
			prometheus.RateLimitedTotal.WithLabelValues(c.Route().Path).Inc()
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(m.window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Rate limit exceeded"})
		}

		member := fmt.Sprintf("%d:%s", now.Unix(), m.uuidProvider().String())
		pipe := m.redis.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, &redis.Z{
			Score:  float64(now.Unix()),
			Member: member,
		})
		pipe.Expire(ctx, key, m.window)
		if _, err := pipe.Exec(ctx); err != nil {
			m.logger.WithError(err).Warn("failed to record request for rate limiting")
		}

		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	for _, header := range clientIPHeaders {
		if v := c.Get(header); v != "" {
			// X-Forwarded-For carries the original client first.
			return strings.TrimSpace(strings.Split(v, ",")[0])
		}
	}
	return c.IP()
}
