package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"tasklist-api/interfaces/api/middleware"
	"tasklist-api/interfaces/api/routes"
	"tasklist-api/pkg/di"
	"tasklist-api/pkg/logger"
)

func main() {
	container := di.NewContainer()

	if err := container.Initialize(); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	setupGracefulShutdown(container)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		AppName:      container.Config.App.Name,
	})

	// Order matters: request ID must precede the logger.
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware())

	routes.SetupRoutes(app, container.Handlers)

	port := container.Config.App.Port
	logger.Info("Server starting",
		"port", port,
		"env", container.Config.App.Env,
		"app", container.Config.App.Name,
		"cache", container.CacheEnabled,
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}
