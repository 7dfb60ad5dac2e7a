package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie is the HttpOnly cookie set by login.
	SessionCookie = "token"

	ContextClaims    = "session_claims"
	ContextAccountID = "account_id"
)

type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*services.SessionClaims, error)
}

// TokenFromRequest reads the session token from the cookie, then from a Bearer header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Claims returns the verified session of the request, if any.
func Claims(c *gin.Context) (*services.SessionClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.SessionClaims)
	return claims, ok && claims != nil
}

func setClaims(c *gin.Context, claims *services.SessionClaims) {
	c.Set(ContextClaims, claims)
	c.Set(ContextAccountID, claims.AccountID)
}

// RequireSession rejects requests without a valid session with 401.
func RequireSession(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			utils.AbortJSONError(c, http.StatusUnauthorized, "error.unauthorized", "login required")
			return
		}
		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			abortVerifyError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalSession attaches the session when a valid one is present and
// otherwise lets the request through anonymously.
func OptionalSession(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := verifier.Verify(c.Request.Context(), token)
		if err == nil {
			setClaims(c, claims)
		} else if !errors.Is(err, services.ErrUnauthorized) {
			log.Printf("⚠️ session check failed: %v", err)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireSession. The role it checks is the
// account's current one, reloaded by Verify.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			utils.AbortJSONError(c, http.StatusUnauthorized, "error.unauthorized", "login required")
			return
		}
		if !claims.IsAdmin() {
			utils.AbortJSONError(c, http.StatusForbidden, "error.forbidden", "admin role required")
			return
		}
		c.Next()
	}
}

func abortVerifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.AbortJSONError(c, http.StatusUnauthorized, "error.unauthorized", "invalid or expired session")
	case errors.Is(err, services.ErrTimeout):
		utils.AbortJSONError(c, http.StatusServiceUnavailable, "error.timeout", "please try again")
	default:
		log.Printf("❌ session check failed: %v", err)
		utils.AbortJSONError(c, http.StatusInternalServerError, "error.internal", "internal error")
	}
}
