package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/middleware"
)

// memberGroup creates an authenticated group under /api/v1
func memberGroup(e *echo.Echo, prefix string) *echo.Group {
	return e.Group("/api/v1"+prefix, middleware.ExtractIdentity())
}

// adminGroup creates an admin-only group under /api/v1/admin
func adminGroup(e *echo.Echo, prefix string) *echo.Group {
	return e.Group("/api/v1/admin"+prefix, middleware.ExtractIdentity(), middleware.RequireAdmin())
}

// writeGuard returns the per-member rate limit middleware for write
// endpoints, or a pass-through when rate limiting is disabled
func writeGuard(c *container.Container) echo.MiddlewareFunc {
	if c.RateLimiter == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	cfg := c.Components.Config.RateLimit
	return middleware.MemberRateLimit(c.RateLimiter, cfg.PerMember, cfg.WindowSec)
}
