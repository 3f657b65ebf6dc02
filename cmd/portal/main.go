package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aviaunion/portal/cmd/portal/container"
	"github.com/aviaunion/portal/cmd/portal/routes"
	"github.com/aviaunion/portal/common/bootstrap"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/server"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap common components (config, logger, DB, redis, blob, notifier)
	components, err := bootstrap.Setup(ctx, "portal",
		bootstrap.WithDBInitHook(func(d *db.DB) error {
			return db.ApplySchema(ctx, d)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap portal: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e, serviceContainer)
	registerRoutes(e, serviceContainer)

	// The sweeper concludes approved delegations once their event passes
	go func() {
		if err := serviceContainer.Sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			components.Logger.Error("sweeper stopped", "error", err)
		}
	}()

	srv := server.New("portal", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(ctx); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, c *container.Container) {
	e.GET("/health", func(ctx echo.Context) error {
		status := "ok"
		code := http.StatusOK

		if err := c.Components.DB.Health(ctx.Request().Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		return ctx.JSON(code, map[string]string{
			"status":  status,
			"service": "portal",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, c *container.Container) {
	routes.RegisterMemberRoutes(e, c)
	routes.RegisterEventRoutes(e, c)
	routes.RegisterDelegationRoutes(e, c)
	routes.RegisterAdjudicationRoutes(e, c)
	routes.RegisterNewsRoutes(e, c)
	routes.RegisterRosterRoutes(e, c)
	routes.RegisterResourceRoutes(e, c)
	routes.RegisterSupportRoutes(e, c)
}
