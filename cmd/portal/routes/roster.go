package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterRosterRoutes registers the union team roster surface
func RegisterRosterRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewRosterHandler(c.RosterService)

	team := memberGroup(e, "/team")
	{
		team.GET("", h.List) // GET /api/v1/team
	}

	admin := adminGroup(e, "/team")
	{
		admin.POST("", h.Add)          // POST /api/v1/admin/team
		admin.DELETE("/:id", h.Remove) // DELETE /api/v1/admin/team/:id
	}
}
