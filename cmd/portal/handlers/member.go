package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/middleware"
	"github.com/aviaunion/portal/cmd/portal/service"
	"github.com/aviaunion/portal/common/models"
)

// MemberHandler handles the member registry surface
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

type registerRequest struct {
	DisplayName string `json:"display_name"`
	Position    string `json:"position"`
	Email       string `json:"email"`
}

// Register creates a pending member record for the authenticated identity
// POST /api/v1/members/register
func (h *MemberHandler) Register(c echo.Context) error {
	var body registerRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	memberID := middleware.GetMemberID(c)

	m, err := h.members.Register(c.Request().Context(), memberID, body.DisplayName, body.Position, body.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, m)
}

// Me returns the caller's own member record
// GET /api/v1/members/me
func (h *MemberHandler) Me(c echo.Context) error {
	m, err := h.members.Get(c.Request().Context(), middleware.GetMemberID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, m)
}

// UpdateProfile applies a merge patch to the caller's contact document
// PATCH /api/v1/members/me
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	patch, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("could not read request body"))
	}

	m, err := h.members.UpdateProfile(c.Request().Context(), middleware.GetMemberID(c), patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, m)
}

type tokenRequest struct {
	Token string `json:"token"`
}

// RegisterToken records a push-notification token for the caller
// POST /api/v1/members/me/tokens
func (h *MemberHandler) RegisterToken(c echo.Context) error {
	var body tokenRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	if err := h.members.RegisterToken(c.Request().Context(), middleware.GetMemberID(c), body.Token); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// List returns members by registry status; approved members are visible to
// everyone so a delegate can be picked
// GET /api/v1/members?status=approved
func (h *MemberHandler) List(c echo.Context) error {
	status := models.MemberStatus(c.QueryParam("status"))
	if status == "" {
		status = models.MemberApproved
	}

	if status == models.MemberPending && middleware.GetRole(c) != middleware.RoleAdmin {
		return c.JSON(http.StatusForbidden, errorBody("admin role required"))
	}

	members, err := h.members.List(c.Request().Context(), status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
	})
}

// Approve moves a pending member into the approved registry
// POST /api/v1/admin/members/:id/approve
func (h *MemberHandler) Approve(c echo.Context) error {
	if err := h.members.Approve(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete removes a member from the registry
// DELETE /api/v1/admin/members/:id
func (h *MemberHandler) Delete(c echo.Context) error {
	if err := h.members.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
