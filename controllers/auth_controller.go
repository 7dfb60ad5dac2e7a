package controllers

import (
	"errors"
	"net/http"
	"time"

	"tourism-backend/middleware"
	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

type registerPayload struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthController struct {
	Accounts     *services.AccountService
	Sessions     *services.SessionService
	CookieSecure bool
}

func NewAuthController(accounts *services.AccountService, sessions *services.SessionService, cookieSecure bool) *AuthController {
	return &AuthController{Accounts: accounts, Sessions: sessions, CookieSecure: cookieSecure}
}

// Register creates a guest account. The response never carries a token
// or the password hash; the client logs in separately.
func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c)
		return
	}

	account, err := ac.Accounts.Register(c.Request.Context(), services.RegisterInput{
		Name:     payload.Name,
		Surname:  payload.Surname,
		Phone:    payload.Phone,
		Email:    payload.Email,
		Gender:   payload.Gender,
		Password: payload.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, account)
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c)
		return
	}

	account, err := ac.Accounts.Authenticate(c.Request.Context(), payload.Email, payload.Password)
	if errors.Is(err, services.ErrAccountNotFound) || errors.Is(err, services.ErrBadCredential) {
		utils.JSONError(c, http.StatusUnauthorized, "error.invalidCredentials", "invalid email or password")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := ac.Sessions.Issue(account)
	if err != nil {
		respondError(c, err)
		return
	}

	ac.setSessionCookie(c, token, int(time.Until(expiresAt).Seconds()))
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":      token,
		"role":       account.Role,
		"expires_at": expiresAt.UTC(),
		"account":    account,
	})
}

// Logout revokes the presented token, if any, and clears the cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	// The cookie goes even when revocation fails.
	ac.setSessionCookie(c, "", -1)
	if claims, ok := middleware.Claims(c); ok {
		if err := ac.Sessions.Revoke(c.Request.Context(), claims); err != nil {
			respondError(c, err)
			return
		}
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Profile returns the caller's own account.
func (ac *AuthController) Profile(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "login required")
		return
	}
	account, err := ac.Accounts.Get(c.Request.Context(), claims.AccountID)
	if errors.Is(err, services.ErrAccountNotFound) {
		// Deleted after the token was issued.
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "login required")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, account)
}

func (ac *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", ac.CookieSecure, true)
}
