package middleware

import (
	"net/http"
	"strconv"

	"github.com/etymograph/dailyverse/internal/limiter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware limits an action per client IP. If the counter store is
// unavailable the request is let through.
func RateLimitMiddleware(l *limiter.Limiter, action string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := l.Check(c.Request.Context(), c.ClientIP(), action)
		if err != nil {
			logger.Warn("rate limit check failed, allowing request",
				zap.String("action", action),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
