package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterDelegationRoutes registers the member-facing delegation surface
func RegisterDelegationRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewDelegationHandler(c.DelegationService, c.ResourceService)
	guard := writeGuard(c)

	delegations := memberGroup(e, "/delegations")
	{
		delegations.GET("/window", h.GetWindow)            // GET /api/v1/delegations/window
		delegations.POST("", h.CreateRequest, guard)       // POST /api/v1/delegations
		delegations.GET("/active", h.GetActive)            // GET /api/v1/delegations/active?event_id=...
		delegations.POST("/proof", h.UploadProof, guard)   // POST /api/v1/delegations/proof
	}
}
