package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/infrastructure/ratelimit"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils"
)

// RateLimiter enforces a per-client-IP allowance on a route group.
type RateLimiter struct {
	limiter ratelimit.Limiter
	logger  logger.Interface
}

// NewRateLimiter wraps limiter; a nil limiter lets every request through.
func NewRateLimiter(limiter ratelimit.Limiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		logger:  logger,
	}
}

const rateLimitedMessage = "rate limit exceeded, please try again later"

// Limit returns a Gin middleware counting requests under scope and the client IP.
// Rejections use the JSON error envelope.
func (rl *RateLimiter) Limit(scope string) gin.HandlerFunc {
	return rl.limit(scope, func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusTooManyRequests, errors.ErrorTypeRateLimited, rateLimitedMessage)
	})
}

// LimitText is Limit for browser-facing routes whose errors are plain text.
func (rl *RateLimiter) LimitText(scope string) gin.HandlerFunc {
	return rl.limit(scope, func(c *gin.Context) {
		utils.TextResponse(c, http.StatusTooManyRequests, "Too many requests, please try again later")
	})
}

func (rl *RateLimiter) limit(scope string, reject func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil {
			c.Next()
			return
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			// If the backend is unavailable, allow the request to avoid blocking all traffic
			rl.logger.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		if !allowed {
			reject(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
