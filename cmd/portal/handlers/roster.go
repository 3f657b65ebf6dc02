package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/service"
)

// RosterHandler handles the union team roster surface
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

type addTeamMemberRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Add appends a person to the roster
// POST /api/v1/admin/team
func (h *RosterHandler) Add(c echo.Context) error {
	var body addTeamMemberRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	tm, err := h.roster.Add(c.Request().Context(), body.Name, body.Role)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, tm)
}

// List returns the roster
// GET /api/v1/team
func (h *RosterHandler) List(c echo.Context) error {
	team, err := h.roster.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"team": team,
	})
}

// Remove deletes a roster entry
// DELETE /api/v1/admin/team/:id
func (h *RosterHandler) Remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid team member id"))
	}

	if err := h.roster.Remove(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
