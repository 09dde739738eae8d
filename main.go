package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"facilities/internal/cache"
	intconfig "facilities/internal/config"
	router "facilities/internal/http"
	"facilities/internal/http/handlers"
	"facilities/internal/revalidate"
	"facilities/internal/services"
	"facilities/internal/utils"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		utils.Log.Fatalf("invalid configuration: %v", err)
	}
	utils.InitLogger(utils.LoggerConfig{
		Level:      env.Log.Level,
		File:       env.Log.File,
		MaxSizeMB:  env.Log.MaxSizeMB,
		MaxBackups: env.Log.MaxBackups,
		Compress:   env.Log.Compress,
	})
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env.Database)
	if err != nil {
		utils.Log.Fatalf("database connection failed: %v", err)
	}
	defer intconfig.CloseDB()

	if err := intconfig.Migrate(db, env.Database.Driver); err != nil {
		utils.Log.Fatalf("migrations failed: %v", err)
	}

	hub := revalidate.NewHub(utils.Log)
	defer hub.Close()
	svc := services.New(db, hub, cache.NewLookups(env.LookupCacheTTL), services.Limits{
		DefaultPerPage: env.DefaultPerPage,
		MaxPerPage:     env.MaxPerPage,
	})

	r := router.NewRouter(env, handlers.New(svc, hub, db, env.Database.Driver))
	handlers.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		// WriteTimeout stays unset: the revalidation stream is long-lived.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		utils.Log.Infof("server listening on %s (driver=%s)", env.AppAddr, env.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	utils.Log.Info("shutting down server...")

	// close the hub first so open SSE streams end and Shutdown can drain
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Log.Fatalf("server shutdown failed: %v", err)
	}

	utils.Log.Info("server stopped cleanly.")
}
