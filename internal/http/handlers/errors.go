package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"facilities/internal/domain"
	"facilities/internal/http/middleware"
	"facilities/internal/utils"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
		Details:   details,
	})
}

// RespondDomainError maps domain errors to HTTP responses. Only validation, not-found and conflict
// messages reach the user; anything else is logged and replaced by the generic message.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		var details any
		var many domain.ValidationErrors
		if errors.As(err, &many) {
			details = many.Fields()
		}
		respondError(c, http.StatusBadRequest, "validation_error", domain.UserMessage(err), details)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", domain.UserMessage(err), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", domain.UserMessage(err), nil)
	default:
		utils.Log.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		respondError(c, http.StatusInternalServerError, "internal_error", domain.GenericMessage, nil)
	}
}
