package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/LuisIslasAcosta/apiVini/pkg/config"
	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/logx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("configuration error: %v", err)
	}

	logx.Info("starting apiVini server...")

	container := NewContainer(cfg)
	defer container.Cleanup()

	app := fiber.New(fiber.Config{
		AppName:               "apiVini",
		DisableStartupMessage: true,
		ErrorHandler:          errx.FiberErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.NewString()
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Get("/health", healthCheckHandler(container))

	container.IdentityHandlers.RegisterRoutes(app, container.TokenMiddleware)
	logx.Info("identity routes registered")

	container.DeviceHandlers.RegisterRoutes(app, container.TokenMiddleware)
	logx.Info("device routes registered")

	app.Use(notFoundHandler)

	startServer(app, cfg.Server.Port)
}

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{"status": "healthy"}
		status := fiber.StatusOK

		if err := container.DB.Ping(); err != nil {
			health["db"] = "unhealthy"
			health["status"] = "degraded"
			status = fiber.StatusServiceUnavailable
		} else {
			health["db"] = "healthy"
		}

		if err := container.Redis.Ping(c.Context()).Err(); err != nil {
			// Cache loss degrades reads, it does not take the service down.
			health["cache"] = "unhealthy"
		} else {
			health["cache"] = "healthy"
		}

		return c.Status(status).JSON(health)
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Route not found",
	})
}

func startServer(app *fiber.App, port string) {
	go func() {
		logx.Infof("server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("server error: %v", err)
		}
	}()

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("received signal: %v, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logx.Errorf("server forced to shutdown: %v", err)
	}

	logx.Info("server exited")
}
