package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterEventRoutes registers the event calendar surface
func RegisterEventRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewEventHandler(c.EventService)

	events := memberGroup(e, "/events")
	{
		events.GET("", h.List) // GET /api/v1/events
	}

	admin := adminGroup(e, "/events")
	{
		admin.POST("", h.Create)       // POST /api/v1/admin/events
		admin.DELETE("/:id", h.Delete) // DELETE /api/v1/admin/events/:id
	}
}
