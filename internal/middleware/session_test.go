package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/model"
	"github.com/iliyamo/clinic-management/internal/utils"
)

const testSecret = "test-secret"

func protectedApp(t *testing.T, required string) *echo.Echo {
	t.Helper()
	e := echo.New()
	g := e.Group("", SessionAuth(testSecret))
	if required != "" {
		g = g.Group("", RequireRole(required))
	}
	g.GET("/ping", func(c echo.Context) error {
		sess := SessionFrom(c)
		if sess == nil {
			t.Fatalf("handler must see the session")
		}
		return c.String(http.StatusOK, sess.Username)
	})
	return e
}

func bearerFor(t *testing.T, role string) string {
	t.Helper()
	raw, err := utils.NewSessionToken(testSecret, model.Session{
		UserID:   7,
		Username: "amira",
		Role:     role,
		LoginAt:  time.Now().UTC(),
	}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + raw
}

func TestSessionAuthAcceptsValidToken(t *testing.T) {
	e := protectedApp(t, "")
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", bearerFor(t, model.RolePatient))
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "amira" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSessionAuthRejectsMissingOrBadToken(t *testing.T) {
	e := protectedApp(t, "")
	for _, header := range []string{"", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: got %d, want 401", header, rec.Code)
		}
	}
}

func TestRequireRoleEnforcesHierarchy(t *testing.T) {
	e := protectedApp(t, model.RoleStaff)

	cases := []struct {
		role string
		want int
	}{
		{model.RoleAdmin, http.StatusOK},
		{model.RoleDoctor, http.StatusOK},
		{model.RoleStaff, http.StatusOK},
		{model.RolePatient, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", bearerFor(t, tc.role))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("role %s: got %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}
