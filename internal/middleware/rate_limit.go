package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/common"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	KeyPrefix string
	Requests  int
	Window    time.Duration
}

// MessageRateLimitConfig bounds how fast one user can send messages (and so trigger pushes)
func MessageRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		KeyPrefix: "ratelimit:messages:",
		Requests:  30,
		Window:    time.Minute,
	}
}

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('PEXPIRE', key, window)
    return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset_at = 0
if #oldest >= 2 then
    reset_at = tonumber(oldest[2]) + window
end
return {0, 0, reset_at}
`)

// RateLimitPerUser limits requests per authenticated user, falling back to the client IP.
// Without Redis, or when Redis fails, requests pass.
func RateLimitPerUser(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		subject := GetUserID(c)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}

		now := time.Now().UnixMilli()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		result, err := rateLimitScript.Run(ctx, redisClient, []string{cfg.KeyPrefix + subject},
			cfg.Requests, cfg.Window.Milliseconds(), now,
		).Int64Slice()
		cancel()
		if err != nil || len(result) != 3 {
			pkglogger.GetLogger().Warn().Err(err).Str("key", cfg.KeyPrefix).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result[1], 10))

		if result[0] != 1 {
			retryAfter := (result[2] - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			rateLimitedTotal.WithLabelValues(cfg.KeyPrefix).Inc()
			common.ErrorResponse(c, http.StatusTooManyRequests, "too many requests", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
