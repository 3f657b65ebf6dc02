package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/common/apperr"
)

// respondError maps a domain error onto the HTTP surface. Validation and
// conflict errors carry their specific message; transaction conflicts get a
// generic retry hint because the underlying state is unchanged.
func respondError(c echo.Context, err error) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case apperr.Validation:
			return c.JSON(http.StatusBadRequest, errorBody(domainErr.Msg))
		case apperr.Conflict:
			return c.JSON(http.StatusConflict, errorBody(domainErr.Msg))
		case apperr.NotFound:
			return c.JSON(http.StatusNotFound, errorBody(domainErr.Msg))
		case apperr.TxConflict:
			return c.JSON(http.StatusServiceUnavailable, errorBody("temporarily busy, please try again"))
		}
	}

	return c.JSON(http.StatusInternalServerError, errorBody("internal error"))
}

func errorBody(msg string) map[string]interface{} {
	return map[string]interface{}{"error": msg}
}
