package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterNewsRoutes registers the news feed surface
func RegisterNewsRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewNewsHandler(c.NewsService)

	news := memberGroup(e, "/news")
	{
		news.GET("", h.List)    // GET /api/v1/news?limit=20
		news.GET("/:id", h.Get) // GET /api/v1/news/:id
	}

	admin := adminGroup(e, "/news")
	{
		admin.POST("", h.Publish)      // POST /api/v1/admin/news
		admin.DELETE("/:id", h.Delete) // DELETE /api/v1/admin/news/:id
	}
}
