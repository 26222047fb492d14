package handlers

import (
	"errors"
	"log"
	"net/http"

	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes. The envelope is the only response
// shape this API produces: {ok:true,data} on success, {ok:false,code} on
// failure, never a mix.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeTaskNotFound    = "TASK_NOT_FOUND"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"ok": true, "data": data})
}

func respondCode(c *gin.Context, status int, code string) {
	c.JSON(status, gin.H{"ok": false, "code": code})
}

func handleServiceError(c *gin.Context, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		respondCode(c, http.StatusNotFound, CodeTaskNotFound)
	case errors.Is(err, services.ErrUserNotFound):
		respondCode(c, http.StatusNotFound, CodeUserNotFound)
	case errors.As(err, &validationErr):
		respondCode(c, http.StatusBadRequest, CodeValidationError)
	default:
		// Persistence and other unclassified failures: details stay in the
		// logs, the client gets an opaque code.
		log.Printf("unhandled task error: %v", err)
		respondCode(c, http.StatusInternalServerError, CodeInternalError)
	}
}
