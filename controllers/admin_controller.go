package controllers

import (
	"net/http"

	"tourism-backend/middleware"
	"tourism-backend/models"
	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

type updateAccountPayload struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Phone   *string `json:"phone"`
	Gender  *string `json:"gender"`
	Role    *string `json:"role"`
}

// AdminController is account administration under /admin/accounts.
type AdminController struct {
	Accounts *services.AccountService
}

func NewAdminController(accounts *services.AccountService) *AdminController {
	return &AdminController{Accounts: accounts}
}

func (ac *AdminController) ListAccounts(c *gin.Context) {
	accounts, err := ac.Accounts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, accounts)
}

func (ac *AdminController) UpdateAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload updateAccountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c)
		return
	}

	// An admin cannot demote themselves and lock everyone out.
	if claims, ok := middleware.Claims(c); ok && claims.AccountID == id &&
		payload.Role != nil && *payload.Role != models.RoleAdmin {
		utils.JSONError(c, http.StatusForbidden, "error.forbidden", "cannot change your own role")
		return
	}

	account, err := ac.Accounts.Update(c.Request.Context(), id, services.UpdateAccountInput{
		Name:    payload.Name,
		Surname: payload.Surname,
		Phone:   payload.Phone,
		Gender:  payload.Gender,
		Role:    payload.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, account)
}

func (ac *AdminController) DeleteAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if claims, ok := middleware.Claims(c); ok && claims.AccountID == id {
		utils.JSONError(c, http.StatusForbidden, "error.forbidden", "cannot delete your own account")
		return
	}
	if err := ac.Accounts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
