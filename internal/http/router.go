package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "facilities/internal/config"
	h "facilities/internal/http/handlers"
	"facilities/internal/http/middleware"
	"facilities/internal/utils"
)

// writerRoles may run mutations when auth is enabled.
var writerRoles = []string{"admin", "staff"}

func NewRouter(env intconfig.Env, hs *h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))
	if env.MetricsEnabled {
		r.Use(middleware.Metrics())
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if env.MetricsEnabled {
		r.GET(env.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/health", hs.Health)
		api.GET("/db-check", hs.DBCheck)
		api.GET("/routes", hs.Routes)

		secured := api.Group("", middleware.Auth(env.Auth.Enabled, env.Auth.JWTSecret))
		write := middleware.RequireRoles(env.Auth.Enabled, writerRoles...)

		secured.GET("/revalidate/stream", hs.RevalidateStream)

		// Lookups
		secured.GET("/lookups", hs.LookupKeys)
		secured.GET("/lookups/:key", hs.Lookup)

		// Sections & categories
		sections := secured.Group("/sections")
		sections.GET("", hs.GetSections)
		sections.POST("", write, hs.CreateSection)
		sections.POST("/delete", write, hs.DeleteSections)

		categories := secured.Group("/categories")
		categories.GET("", hs.GetCategories)
		categories.POST("", write, hs.CreateCategory)
		categories.POST("/delete", write, hs.DeleteCategories)

		hs.Mount(secured, write)
	}

	return r
}
