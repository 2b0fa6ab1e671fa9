// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/franchise-backoffice/internal/app"
	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/middleware"
	"github.com/javajoker/franchise-backoffice/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	app.SetupLogging(cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize database, queues and services
	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer a.Close()

	// Run database migrations
	if err := database.RunMigrations(a.DB); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}
	if err := database.SeedInitialData(a.DB, cfg.Admin); err != nil {
		logrus.Fatal("Failed to seed initial data: ", err)
	}

	// Background workers
	a.StartWorkers(ctx)
	limiters := middleware.NewLimiters(cfg.RateLimit)
	limiters.Start(ctx)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(a.DB, cfg, a.Services, limiters)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Environment,
			"version":     router.Version,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	// Stop workers and flush pending notifications
	stop()
	a.Wait()

	logrus.Info("Server exited")
}
