package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pharmacy/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tokens *auth.TokenManager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireRole(tokens, roles...), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserEmail)+"|"+c.GetString(CtxUserRole))
	})
	return r
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "pharmacy-test")
	admin, _, err := tokens.Issue("u1", "admin@pharmacy.com", "Admin")
	require.NoError(t, err)
	pharmacist, _, err := tokens.Issue("u2", "pat@pharmacy.com", "Pharmacist")
	require.NoError(t, err)

	r := newTestRouter(tokens, "Admin")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + admin, http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
		{"role not allowed", "Bearer " + pharmacist, http.StatusForbidden},
		{"allowed", "Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_CookieFallback(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "pharmacy-test")
	token, _, err := tokens.Issue("u2", "pat@pharmacy.com", "Pharmacist")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	newTestRouter(tokens, "Admin", "Pharmacist").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pat@pharmacy.com|Pharmacist", rec.Body.String())
}
