package api

import (
	"errors"
	"net/http"

	"safvacut-wallet-go/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Code: status, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Code: status, Message: message})
}

var statusByType = map[apperr.ErrorType]int{
	apperr.Validation:        http.StatusBadRequest,
	apperr.NotFound:          http.StatusNotFound,
	apperr.InsufficientFunds: http.StatusUnprocessableEntity,
	apperr.Conflict:          http.StatusConflict,
	apperr.Unauthorized:      http.StatusUnauthorized,
	apperr.Unavailable:       http.StatusServiceUnavailable,
	apperr.Internal:          http.StatusInternalServerError,
}

// respondFailure maps err to its status and user-facing message.
func respondFailure(c *gin.Context, err error) {
	status, ok := statusByType[apperr.TypeOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	message := apperr.Message(err)
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Code != "" {
		c.AbortWithStatusJSON(status, Envelope{Code: status, Message: message, Data: gin.H{"code": ae.Code}})
		return
	}
	respondError(c, status, message)
}
