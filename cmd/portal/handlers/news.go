package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/service"
)

// NewsHandler handles the news feed surface
type NewsHandler struct {
	news *service.NewsService
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(news *service.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

type publishNewsRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Publish creates a news post
// POST /api/v1/admin/news
func (h *NewsHandler) Publish(c echo.Context) error {
	var body publishNewsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	post, err := h.news.Publish(c.Request().Context(), body.Title, body.Body)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, post)
}

// List returns news posts, newest first
// GET /api/v1/news?limit=20
func (h *NewsHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	posts, err := h.news.List(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"news": posts,
	})
}

// Get returns a single news post
// GET /api/v1/news/:id
func (h *NewsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid news id"))
	}

	post, err := h.news.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

// Delete removes a news post
// DELETE /api/v1/admin/news/:id
func (h *NewsHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid news id"))
	}

	if err := h.news.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
