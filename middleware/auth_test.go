package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourism-backend/models"
	"tourism-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier map[string]*services.SessionClaims

func (s stubVerifier) Verify(_ context.Context, token string) (*services.SessionClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, services.ErrInvalidToken
}

func newRouter(verifier SessionVerifier, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		if claims, ok := Claims(c); ok {
			c.String(http.StatusOK, "account %d", claims.AccountID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/", handlers...)
	return r
}

func TestTokenSources(t *testing.T) {
	verifier := stubVerifier{
		"cookie-token": {AccountID: 1, Role: models.RoleGuest},
		"header-token": {AccountID: 2, Role: models.RoleGuest},
	}
	r := newRouter(verifier, RequireSession(verifier))

	tests := []struct {
		name     string
		setup    func(*http.Request)
		wantCode int
		wantBody string
	}{
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"}) }, http.StatusOK, "account 1"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer header-token") }, http.StatusOK, "account 2"},
		{"lowercase bearer", func(r *http.Request) { r.Header.Set("Authorization", "bearer header-token") }, http.StatusOK, "account 2"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, "error.unauthorized"},
		{"basic auth", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, http.StatusUnauthorized, "error.unauthorized"},
		{"unknown token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, "error.unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestOptionalSession(t *testing.T) {
	verifier := stubVerifier{"ok": {AccountID: 9, Role: models.RoleGuest}}
	r := newRouter(verifier, OptionalSession(verifier))

	for token, want := range map[string]string{"": "anonymous", "ok": "account 9", "bad": "anonymous"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, want, rr.Body.String(), token)
	}
}

func TestRequireAdmin(t *testing.T) {
	verifier := stubVerifier{
		"guest": {AccountID: 1, Role: models.RoleGuest},
		"admin": {AccountID: 2, Role: models.RoleAdmin},
	}
	r := newRouter(verifier, RequireSession(verifier), RequireAdmin())

	for token, want := range map[string]int{"guest": http.StatusForbidden, "admin": http.StatusOK, "": http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, token)
	}
}
