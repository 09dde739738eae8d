package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"facilities/internal/http/middleware"
	"facilities/internal/revalidate"
	"facilities/internal/utils"
)

// keepAlive is how often an idle stream gets a ping comment.
var keepAlive = 25 * time.Second

// RevalidateStream serves GET /api/revalidate/stream: one SSE "revalidate" event per published path.
func (h *Handlers) RevalidateStream(c *gin.Context) {
	if h.Hub == nil {
		RespondError(c, http.StatusServiceUnavailable, "revalidation is disabled", nil)
		return
	}
	events, cancel := h.Hub.Subscribe(revalidate.DefaultBuffer)
	defer cancel()

	utils.LogEvent(middleware.GetRequestID(c), "revalidate", "subscribe", c.ClientIP())
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("revalidate", ev)
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
