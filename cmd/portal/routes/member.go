package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterMemberRoutes registers the member registry surface
func RegisterMemberRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewMemberHandler(c.MemberService)
	guard := writeGuard(c)

	members := memberGroup(e, "/members")
	{
		members.POST("/register", h.Register, guard) // POST /api/v1/members/register
		members.GET("/me", h.Me)                     // GET /api/v1/members/me
		members.PATCH("/me", h.UpdateProfile, guard) // PATCH /api/v1/members/me
		members.POST("/me/tokens", h.RegisterToken, guard)
		members.GET("", h.List) // GET /api/v1/members?status=approved
	}

	admin := adminGroup(e, "/members")
	{
		admin.POST("/:id/approve", h.Approve) // POST /api/v1/admin/members/:id/approve
		admin.DELETE("/:id", h.Delete)        // DELETE /api/v1/admin/members/:id
	}
}
