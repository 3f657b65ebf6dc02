package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func performRequest(headers map[string]string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	_ = handler(c)
	return rec, c
}

func TestExtractIdentity_MissingHeader(t *testing.T) {
	rec, _ := performRequest(nil, ExtractIdentity())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestExtractIdentity_Member(t *testing.T) {
	rec, c := performRequest(map[string]string{
		"X-Member-ID": "m-42",
	}, ExtractIdentity())

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := GetMemberID(c); got != "m-42" {
		t.Errorf("expected member id m-42, got %q", got)
	}
	if got := GetRole(c); got != RoleMember {
		t.Errorf("expected member role, got %q", got)
	}
}

func TestExtractIdentity_UnknownRoleDowngrades(t *testing.T) {
	_, c := performRequest(map[string]string{
		"X-Member-ID":   "m-42",
		"X-Member-Role": "superuser",
	}, ExtractIdentity())

	if got := GetRole(c); got != RoleMember {
		t.Errorf("unknown roles must downgrade to member, got %q", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	rec, _ := performRequest(map[string]string{
		"X-Member-ID":   "m-1",
		"X-Member-Role": "admin",
	}, ExtractIdentity(), RequireAdmin())
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}

	rec, _ = performRequest(map[string]string{
		"X-Member-ID": "m-2",
	}, ExtractIdentity(), RequireAdmin())
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for member, got %d", rec.Code)
	}
}
