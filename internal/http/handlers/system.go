package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	intdb "facilities/internal/db"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// requiredTables are checked by /api/db-check.
var requiredTables = []string{
	"departments", "sections", "roles", "categories", "users", "user_roles",
	"inventory_items", "supply_items", "vehicles", "venues", "requests",
}

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "facilities backend is running"})
}

func (h *Handlers) DBCheck(c *gin.Context) {
	if h.DB == nil {
		RespondError(c, http.StatusInternalServerError, "database is not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		RespondError(c, http.StatusInternalServerError, "database ping failed", err)
		return
	}
	if missing := intdb.MissingTables(ctx, h.DB, h.Driver, requiredTables...); len(missing) > 0 {
		respondError(c, http.StatusInternalServerError, "schema_incomplete", "missing tables", missing)
		return
	}
	var users int
	if err := h.DB.GetContext(ctx, &users, "SELECT COUNT(*) FROM users"); err != nil {
		RespondError(c, http.StatusInternalServerError, "database query failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "driver": h.Driver, "users_in_db": users})
}

func (h *Handlers) Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		RespondError(c, http.StatusServiceUnavailable, "router is not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
