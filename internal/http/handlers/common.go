package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"facilities/internal/http/middleware"
	"facilities/internal/services"
	"facilities/internal/utils"
)

// RespondError sends a plain error payload with request_id included. err is logged, never sent.
func RespondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		utils.Log.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).WithError(err).Warn(message)
	}
	respondError(c, status, "", message, nil)
}

// BindJSONOrError ensures body is present and parsable. The body is cached so a handler may bind
// it more than once (fields plus the shared path/ids envelope).
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid JSON payload", err)
		return false
	}
	return true
}

// reqCtx carries the request id and caller into service logs.
func reqCtx(c *gin.Context) context.Context {
	ctx := services.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
	return services.WithActor(ctx, middleware.RequestContext(c))
}

// pathBody is the revalidation path every mutation body may carry.
type pathBody struct {
	Path string `json:"path"`
}

type idsBody struct {
	IDs  []string `json:"ids"`
	Path string   `json:"path"`
}

type statusBody struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
	Path   string   `json:"path"`
}

func paramID(c *gin.Context) string {
	return utils.TrimOrEmpty(c.Param("id"))
}
