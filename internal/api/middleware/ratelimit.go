// internal/api/middleware/ratelimit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/constants"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// RateLimitMiddleware limits each client IP to limit requests per window.
// Limiter failures let the request through.
func RateLimitMiddleware(rl Limiter, log *zap.SugaredLogger, key string, limit int, window time.Duration) gin.HandlerFunc {
	if rl == nil || limit <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		allowed, count, err := rl.Allow(c.Request.Context(), fmt.Sprintf("%s:%s", key, c.ClientIP()), limit, window)
		if err != nil {
			log.Warnw("rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		now := time.Now()
		reset := windowReset(now, window)
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter(now, reset)))
			abort(c, apperror.WithStatus("Rate limit exceeded", http.StatusTooManyRequests))
			return
		}

		c.Next()
	}
}

// windowReset is the end of the fixed window containing now. Buckets are
// aligned to multiples of window since the Unix epoch, matching the limiter.
func windowReset(now time.Time, window time.Duration) time.Time {
	secs := int64(window.Seconds())
	if secs <= 0 {
		secs = 1
	}
	return time.Unix((now.Unix()/secs+1)*secs, 0)
}

func retryAfter(now, reset time.Time) int64 {
	if wait := reset.Unix() - now.Unix(); wait > 0 {
		return wait
	}
	return 1
}

func AuthRateLimit(rl Limiter, log *zap.SugaredLogger, limit int) gin.HandlerFunc {
	return RateLimitMiddleware(rl, log, constants.AuthRateLimitKey, limit, constants.RateLimitWindow)
}
