package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/service"
)

// EventHandler handles the governance event calendar surface
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type createEventRequest struct {
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Create schedules a new governance event
// POST /api/v1/admin/events
func (h *EventHandler) Create(c echo.Context) error {
	var body createEventRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	event, err := h.events.Create(c.Request().Context(), body.Title, body.ScheduledAt)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, event)
}

// List returns all events
// GET /api/v1/events
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// Delete removes an event
// DELETE /api/v1/admin/events/:id
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid event id"))
	}

	if err := h.events.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
