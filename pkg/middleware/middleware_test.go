package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Astemirdum/library-loans/pkg/auth"
	md "github.com/Astemirdum/library-loans/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestAuthContextAndRequireRole(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		userName     string
		role         string
		expectedCode int
		expectedBody string
	}{
		{name: "admin", userName: "ana", role: auth.RoleAdmin, expectedCode: http.StatusOK, expectedBody: "ana"},
		{name: "plain user", userName: "bob", role: auth.RoleUser, expectedCode: http.StatusForbidden, expectedBody: `{"code":"FORBIDDEN","message":"insufficient role"}`},
		{name: "no name", role: auth.RoleAdmin, expectedCode: http.StatusBadRequest, expectedBody: `{"code":"BAD_REQUEST","message":"user-name is empty"}`},
		{name: "no role", userName: "ana", expectedCode: http.StatusBadRequest, expectedBody: `{"code":"BAD_REQUEST","message":"user-role is empty"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			g := e.Group("", md.AuthContext)
			g.POST("/materials", func(c echo.Context) error {
				return c.String(http.StatusOK, auth.UserName(c.Request().Context()))
			}, md.RequireRole(auth.RoleAdmin))

			r := httptest.NewRequest(http.MethodPost, "/materials", http.NoBody)
			if tt.userName != "" {
				r.Header.Set(auth.XUserNameHeader, tt.userName)
			}
			if tt.role != "" {
				r.Header.Set(auth.XUserRoleHeader, tt.role)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
