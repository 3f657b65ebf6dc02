package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/service"
)

const maxTemplateSize = 10 << 20 // 10 MiB

// ResourceHandler handles the link repository and document templates
type ResourceHandler struct {
	resources *service.ResourceService
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resources *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

type addLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AddLink adds a link to the repository
// POST /api/v1/admin/links
func (h *ResourceHandler) AddLink(c echo.Context) error {
	var body addLinkRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	link, err := h.resources.AddLink(c.Request().Context(), body.Title, body.URL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, link)
}

// ListLinks returns all links
// GET /api/v1/links
func (h *ResourceHandler) ListLinks(c echo.Context) error {
	links, err := h.resources.ListLinks(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"links": links,
	})
}

// RemoveLink deletes a link
// DELETE /api/v1/admin/links/:id
func (h *ResourceHandler) RemoveLink(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid link id"))
	}

	if err := h.resources.RemoveLink(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddTemplate uploads a document template as multipart form data with a
// "title" field and a "file" part
// POST /api/v1/admin/templates
func (h *ResourceHandler) AddTemplate(c echo.Context) error {
	title := c.FormValue("title")

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("template file is required"))
	}
	if fh.Size > maxTemplateSize {
		return c.JSON(http.StatusBadRequest, errorBody("template file exceeds the size limit"))
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("failed to open uploaded file"))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxTemplateSize))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("failed to read uploaded file"))
	}

	tpl, err := h.resources.AddTemplate(c.Request().Context(), title, fh.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, tpl)
}

// ListTemplates returns all template records
// GET /api/v1/templates
func (h *ResourceHandler) ListTemplates(c echo.Context) error {
	templates, err := h.resources.ListTemplates(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates": templates,
	})
}

// DownloadTemplate streams a template's file payload
// GET /api/v1/templates/:id/file
func (h *ResourceHandler) DownloadTemplate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid template id"))
	}

	tpl, data, err := h.resources.TemplateFile(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+tpl.FileName+`"`)
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
}

// RemoveTemplate deletes a template record
// DELETE /api/v1/admin/templates/:id
func (h *ResourceHandler) RemoveTemplate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid template id"))
	}

	if err := h.resources.RemoveTemplate(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
