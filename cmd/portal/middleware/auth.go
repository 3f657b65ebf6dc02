package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// MemberIDKey is the context key for the authenticated member id
	MemberIDKey ContextKey = "member_id"
	// RoleKey is the context key for the role claim
	RoleKey ContextKey = "role"
)

// Role values issued by the identity provider
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// ExtractIdentity reads the identity headers set by the fronting auth proxy
// (X-Member-ID and X-Member-Role) and stores them in the request context.
// Requests without an identity are rejected.
func ExtractIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			memberID := c.Request().Header.Get("X-Member-ID")
			if memberID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "authentication required (X-Member-ID header missing)",
				})
			}

			role := c.Request().Header.Get("X-Member-Role")
			if role != RoleAdmin {
				role = RoleMember
			}

			c.Set(string(MemberIDKey), memberID)
			c.Set(string(RoleKey), role)
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose role claim is not admin.
// Must run after ExtractIdentity.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetRole(c) != RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error": "admin role required",
				})
			}
			return next(c)
		}
	}
}

// GetMemberID retrieves the authenticated member id from the request
// context. Returns empty string if not set.
func GetMemberID(c echo.Context) string {
	memberID := c.Get(string(MemberIDKey))
	if memberID == nil {
		return ""
	}
	return memberID.(string)
}

// GetRole retrieves the role claim from the request context
func GetRole(c echo.Context) string {
	role := c.Get(string(RoleKey))
	if role == nil {
		return RoleMember
	}
	return role.(string)
}
