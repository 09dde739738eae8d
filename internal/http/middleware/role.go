package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles only lets requests through whose userRole (set by Auth) is one of allowedRoles.
//
//	r.POST("/departments", RequireRoles("admin", "staff"), handler)
//
// With enabled=false every request passes, matching Auth's pass-through mode.
func RequireRoles(enabled bool, allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		role := c.GetString(UserRoleKey)
		if role == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized: no role on token")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden: role not allowed",
				"code":       "forbidden",
				"message":    "forbidden: role not allowed",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
