package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterResourceRoutes registers the link repository and document
// template surfaces
func RegisterResourceRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewResourceHandler(c.ResourceService)

	links := memberGroup(e, "/links")
	{
		links.GET("", h.ListLinks) // GET /api/v1/links
	}

	adminLinks := adminGroup(e, "/links")
	{
		adminLinks.POST("", h.AddLink)            // POST /api/v1/admin/links
		adminLinks.DELETE("/:id", h.RemoveLink)   // DELETE /api/v1/admin/links/:id
	}

	templates := memberGroup(e, "/templates")
	{
		templates.GET("", h.ListTemplates)              // GET /api/v1/templates
		templates.GET("/:id/file", h.DownloadTemplate)  // GET /api/v1/templates/:id/file
	}

	adminTemplates := adminGroup(e, "/templates")
	{
		adminTemplates.POST("", h.AddTemplate)          // POST /api/v1/admin/templates
		adminTemplates.DELETE("/:id", h.RemoveTemplate) // DELETE /api/v1/admin/templates/:id
	}
}
