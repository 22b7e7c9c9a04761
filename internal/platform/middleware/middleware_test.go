package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		rid := c.Get("request_id").(string)
		if rid == "" {
			t.Error("expected request_id to be generated")
		}
		return c.NoContent(http.StatusOK)
	}
	if err := RequestID()(handler)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected request id echoed on the response")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if rid := c.Get("request_id").(string); rid != "my-custom-id" {
			t.Errorf("request_id = %q", rid)
		}
		return c.NoContent(http.StatusOK)
	}
	if err := RequestID()(handler)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", got)
	}
}

func TestResolveRole(t *testing.T) {
	e := echo.New()

	cases := []struct {
		header string
		want   string
	}{
		{"admin", "admin"},
		{"practitioner", "practitioner"},
		{"", "patient"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set(RoleHeader, tc.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		handler := func(c echo.Context) error {
			if got := Role(c); got != tc.want {
				t.Errorf("header %q: role = %q, want %q", tc.header, got, tc.want)
			}
			return c.NoContent(http.StatusOK)
		}
		if err := ResolveRole()(handler)(c); err != nil {
			t.Fatalf("middleware: %v", err)
		}
	}
}
