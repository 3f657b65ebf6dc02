package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/common/ratelimit"
)

// MemberRateLimit limits write requests per authenticated member.
// Fails open: a limiter error never blocks the request.
// Must run after ExtractIdentity.
func MemberRateLimit(limiter *ratelimit.Limiter, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			memberID := GetMemberID(c)
			if memberID == "" {
				return next(c)
			}

			result, err := limiter.CheckMemberLimit(c.Request().Context(), memberID, limit, windowSec)
			if err != nil {
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":               "rate_limit_exceeded",
					"message":             "Too many requests. Please try again later.",
					"retry_after_seconds": result.RetryAfterSeconds,
				})
			}

			return next(c)
		}
	}
}
