package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/middleware"
	"github.com/aviaunion/portal/cmd/portal/service"
)

// AdjudicationHandler handles the admin delegation oversight surface
type AdjudicationHandler struct {
	delegations  *service.DelegationService
	adjudication *service.AdjudicationService
}

// NewAdjudicationHandler creates a new adjudication handler
func NewAdjudicationHandler(delegations *service.DelegationService, adjudication *service.AdjudicationService) *AdjudicationHandler {
	return &AdjudicationHandler{
		delegations:  delegations,
		adjudication: adjudication,
	}
}

// ListPending returns the queue of requests awaiting a decision
// GET /api/v1/admin/delegations/pending
func (h *AdjudicationHandler) ListPending(c echo.Context) error {
	requests, err := h.adjudication.PendingQueue(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// Approve approves a pending delegation request
// POST /api/v1/admin/delegations/:id/approve
func (h *AdjudicationHandler) Approve(c echo.Context) error {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request id"))
	}

	adminID := middleware.GetMemberID(c)

	request, err := h.delegations.ApproveRequest(c.Request().Context(), requestID, adminID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, request)
}

// Reject rejects a pending delegation request
// POST /api/v1/admin/delegations/:id/reject
func (h *AdjudicationHandler) Reject(c echo.Context) error {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request id"))
	}

	adminID := middleware.GetMemberID(c)

	request, err := h.delegations.RejectRequest(c.Request().Context(), requestID, adminID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, request)
}

// MemberLedger returns the full ledger view for one member: their weight,
// the delegation they gave away and the ones they received
// GET /api/v1/admin/delegations/ledger/:memberId
func (h *AdjudicationHandler) MemberLedger(c echo.Context) error {
	memberID := c.Param("memberId")

	view, err := h.adjudication.MemberLedger(c.Request().Context(), memberID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, view)
}

// Inbound returns approved delegations pointing at a member
// GET /api/v1/admin/delegations/inbound/:memberId?event_id=...
func (h *AdjudicationHandler) Inbound(c echo.Context) error {
	memberID := c.Param("memberId")

	var eventID *uuid.UUID
	if raw := c.QueryParam("event_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid event_id"))
		}
		eventID = &parsed
	}

	requests, err := h.adjudication.Inbound(c.Request().Context(), memberID, eventID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// Outbound returns approved delegations originating from a member
// GET /api/v1/admin/delegations/outbound/:memberId
func (h *AdjudicationHandler) Outbound(c echo.Context) error {
	memberID := c.Param("memberId")

	requests, err := h.adjudication.Outbound(c.Request().Context(), memberID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}
