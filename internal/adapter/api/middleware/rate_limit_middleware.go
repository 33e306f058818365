package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"charityconnect/internal/infrastructure/ratelimit"
	"charityconnect/pkg/response"
)

// Limiter is satisfied by *ratelimit.RateLimiter.
type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// RateLimit refuses requests from an IP that has spent its api_request bucket.
func RateLimit(limiter Limiter, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.Allow(ip, ratelimit.ActionAPIRequest)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("Rate limit exceeded", "ip", ip, "path", c.Path(), "retry_after", retryAfter)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Fail(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
					fmt.Sprintf("Rate limit exceeded, retry in %ds", retryAfter))
			}

			return next(c)
		}
	}
}
