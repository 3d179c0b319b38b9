package ratelimit

import (
	"fmt"
	"math"

	"github.com/LegalMindAI/Backend-V2/internal/apierrors"
	authHandler "github.com/LegalMindAI/Backend-V2/internal/auth/handler"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for rate limiting. Authenticated requests are limited
// per owner, anonymous ones per client IP.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		subject, ok := authHandler.UserID(c)
		if !ok {
			subject = "ip:" + c.ClientIP()
		}
		ctx = observability.WithFields(ctx, observability.Field{Key: "rate_limit_subject", Value: subject})

		result := s.CheckRateLimit(ctx, subject)
		if result.Limit <= 0 {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(result.RetryAfter.Seconds()))))
			s.logger.Warn(ctx, "rate limit exceeded",
				observability.Field{Key: "limit", Value: result.Limit},
				observability.Field{Key: "retry_after_ms", Value: result.RetryAfter.Milliseconds()},
			)
			apierrors.RespondWithError(c, apierrors.TooManyRequests("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}
