package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterSupportRoutes registers the support thread surface
func RegisterSupportRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewSupportHandler(c.SupportService)
	guard := writeGuard(c)

	support := memberGroup(e, "/support")
	{
		support.POST("", h.Create, guard) // POST /api/v1/support
		support.GET("", h.ListMine)       // GET /api/v1/support
	}

	admin := adminGroup(e, "/support")
	{
		admin.GET("", h.ListAll)              // GET /api/v1/admin/support
		admin.POST("/:id/answer", h.Answer)   // POST /api/v1/admin/support/:id/answer
	}
}
