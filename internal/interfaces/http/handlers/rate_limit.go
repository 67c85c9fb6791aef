package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/loanrisk/internal/application/dto"
	"github.com/turtacn/loanrisk/pkg/errors"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// ClientRateLimiter hands out request tokens per client key.
type ClientRateLimiter interface {
	Allow(key string) (bool, time.Duration)
}

// RateLimitMiddleware rejects clients, keyed by their IP, that exceed their request budget.
func RateLimitMiddleware(limiter ClientRateLimiter, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		allowed, wait := limiter.Allow(clientIP)
		if allowed {
			c.Next()
			return
		}

		log.Warn(c.Request.Context(), "rate limit exceeded",
			logger.String("client_ip", clientIP),
			logger.String("path", c.FullPath()),
		)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		dto.SendError(c, errors.ErrRateLimitExceeded(wait))
	}
}
