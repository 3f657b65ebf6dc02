package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/cmd/portal/middleware"
	"github.com/aviaunion/portal/cmd/portal/service"
)

// maxProofSize bounds uploaded proof documents (5 MiB)
const maxProofSize = 5 << 20

// DelegationHandler handles the member-facing delegation surface
type DelegationHandler struct {
	delegations *service.DelegationService
	resources   *service.ResourceService
}

// NewDelegationHandler creates a new delegation handler
func NewDelegationHandler(delegations *service.DelegationService, resources *service.ResourceService) *DelegationHandler {
	return &DelegationHandler{
		delegations: delegations,
		resources:   resources,
	}
}

// GetWindow reports the delegation window state for the nearest event
// GET /api/v1/delegations/window
func (h *DelegationHandler) GetWindow(c echo.Context) error {
	decision, err := h.delegations.Window(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, decision)
}

type createDelegationRequest struct {
	ToID     string  `json:"to_id"`
	EventID  string  `json:"event_id"`
	ProofRef *string `json:"proof_ref,omitempty"`
}

// CreateRequest files a delegation of the caller's vote
// POST /api/v1/delegations
func (h *DelegationHandler) CreateRequest(c echo.Context) error {
	var body createDelegationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid event_id"))
	}

	fromID := middleware.GetMemberID(c)

	request, err := h.delegations.CreateRequest(c.Request().Context(), fromID, body.ToID, eventID, body.ProofRef)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, request)
}

// GetActive reports whether the caller's approved delegation applies to an
// event
// GET /api/v1/delegations/active?event_id=...
func (h *DelegationHandler) GetActive(c echo.Context) error {
	eventID, err := uuid.Parse(c.QueryParam("event_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid event_id"))
	}

	memberID := middleware.GetMemberID(c)

	active, err := h.delegations.ActiveDelegationFor(c.Request().Context(), memberID, eventID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"member_id": memberID,
		"event_id":  eventID,
		"active":    active,
	})
}

// UploadProof stores a proof-of-authorization document and returns its
// blob reference for attachment to a delegation request
// POST /api/v1/delegations/proof
func (h *DelegationHandler) UploadProof(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("file is required"))
	}
	if file.Size > maxProofSize {
		return c.JSON(http.StatusBadRequest, errorBody("file too large"))
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("could not read file"))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxProofSize+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("could not read file"))
	}
	if len(data) > maxProofSize {
		return c.JSON(http.StatusBadRequest, errorBody("file too large"))
	}

	memberID := middleware.GetMemberID(c)

	ref, err := h.resources.StoreProof(c.Request().Context(), memberID, file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"proof_ref": ref,
	})
}
