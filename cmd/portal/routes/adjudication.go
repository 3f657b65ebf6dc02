package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/handlers"
)

// RegisterAdjudicationRoutes registers the admin delegation oversight surface
func RegisterAdjudicationRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAdjudicationHandler(c.DelegationService, c.AdjudicationService)

	admin := adminGroup(e, "/delegations")
	{
		admin.GET("/pending", h.ListPending)             // GET /api/v1/admin/delegations/pending
		admin.POST("/:id/approve", h.Approve)            // POST /api/v1/admin/delegations/:id/approve
		admin.POST("/:id/reject", h.Reject)              // POST /api/v1/admin/delegations/:id/reject
		admin.GET("/ledger/:memberId", h.MemberLedger)   // GET /api/v1/admin/delegations/ledger/:memberId
		admin.GET("/inbound/:memberId", h.Inbound)       // GET /api/v1/admin/delegations/inbound/:memberId
		admin.GET("/outbound/:memberId", h.Outbound)     // GET /api/v1/admin/delegations/outbound/:memberId
	}
}
