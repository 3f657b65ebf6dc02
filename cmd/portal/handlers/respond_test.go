package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/aviaunion/portal/common/apperr"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", apperr.Validationf("no delegate selected"), http.StatusBadRequest, "no delegate selected"},
		{"conflict", apperr.Conflictf("already delegated"), http.StatusConflict, "already delegated"},
		{"not found", apperr.NotFoundf("member m-1 not found"), http.StatusNotFound, "member m-1 not found"},
		{"tx conflict", apperr.TxConflictf(errors.New("40001"), "contended"), http.StatusServiceUnavailable, "temporarily busy"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := respondError(c, tt.err); err != nil {
				t.Fatalf("respondError returned %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected body containing %q, got %s", tt.wantBody, rec.Body.String())
			}
		})
	}
}
