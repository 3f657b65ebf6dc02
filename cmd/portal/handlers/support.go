package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/middleware"
	"github.com/aviaunion/portal/cmd/portal/service"
)

// SupportHandler handles member-to-admin support threads
type SupportHandler struct {
	support *service.SupportService
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(support *service.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

type createSupportRequest struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

// Create files a new support request from the authenticated member
// POST /api/v1/support
func (h *SupportHandler) Create(c echo.Context) error {
	var body createSupportRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	memberID := middleware.GetMemberID(c)
	req, err := h.support.Create(c.Request().Context(), memberID, body.Email, body.Text)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, req)
}

// ListMine returns the authenticated member's support requests
// GET /api/v1/support
func (h *SupportHandler) ListMine(c echo.Context) error {
	memberID := middleware.GetMemberID(c)
	requests, err := h.support.ListMine(c.Request().Context(), memberID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// ListAll returns every support request for the admin surface
// GET /api/v1/admin/support
func (h *SupportHandler) ListAll(c echo.Context) error {
	requests, err := h.support.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

type answerSupportRequest struct {
	MemberID string `json:"member_id"`
	Reply    string `json:"reply"`
}

// Answer records an admin reply to a support request
// POST /api/v1/admin/support/:id/answer
func (h *SupportHandler) Answer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid support request id"))
	}

	var body answerSupportRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	if err := h.support.Answer(c.Request().Context(), id, body.MemberID, body.Reply); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "answered",
	})
}
