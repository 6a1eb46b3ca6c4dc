// Package server assembles the HTTP surface: routing, CORS, and the mapping
// from domain errors to protocol responses.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/goliatone/go-users-api/auth"
	"github.com/goliatone/go-users-api/items"
)

type Options struct {
	Auther      auth.Authenticator
	Items       items.Items
	CORSOrigins string
	ContextKey  string
	AuthScheme  string
	Logger      auth.Logger
}

// New builds the fiber application with every route mounted. Route handlers
// return rich errors; the central error handler is the single place domain
// failures become status codes.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "go-users-api",
		ErrorHandler: ErrorHandler(opts.Logger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Full-Stack API!",
		})
	})

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"message": "API is running",
		})
	})

	protected := auth.RequireAuth(auth.MiddlewareConfig{
		Resolver:   opts.Auther,
		ContextKey: opts.ContextKey,
		AuthScheme: opts.AuthScheme,
	})

	controllerOpts := []auth.AuthControllerOption{
		auth.WithControllerContextKey(opts.ContextKey),
	}
	if opts.Logger != nil {
		controllerOpts = append(controllerOpts, auth.WithControllerLogger(opts.Logger))
	}

	auth.RegisterAuthRoutes(app, auth.NewAuthController(opts.Auther, controllerOpts...), protected)
	items.RegisterItemRoutes(app, items.NewItemsController(opts.Items))

	return app
}
