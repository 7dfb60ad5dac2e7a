package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"tourism-backend/services"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error kind onto status and error code.
// Internal details are logged, never returned.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		code := "error.invalidInput"
		switch {
		case errors.Is(err, services.ErrInvalidRange):
			code = "error.invalidRange"
		case errors.Is(err, services.ErrInvalidCategory):
			code = "error.invalidCategory"
		}
		utils.JSONError(c, http.StatusBadRequest, code, message(err, services.ErrInvalidInput))
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.notFound", message(err, services.ErrNotFound)+" not found")
	case errors.Is(err, services.ErrConflict):
		code := "error.conflict"
		switch {
		case errors.Is(err, services.ErrBookingConflict):
			code = "error.bookingConflict"
		case errors.Is(err, services.ErrEmailTaken):
			code = "error.emailTaken"
		case errors.Is(err, services.ErrPlaceInUse):
			code = "error.placeInUse"
		}
		utils.JSONError(c, http.StatusConflict, code, message(err, services.ErrConflict))
	case errors.Is(err, services.ErrUnauthorized):
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "login required")
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "error.forbidden", "not allowed")
	case errors.Is(err, services.ErrTimeout):
		log.Printf("⏱️ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusServiceUnavailable, "error.timeout", "please try again")
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal error")
	}
}

// message strips the "kind: " prefix so clients see only the specific part.
func message(err, kind error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, kind.Error()+": ")
}

func respondBadPayload(c *gin.Context) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid JSON payload")
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
