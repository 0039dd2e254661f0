package server

import (
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"dream-journal-be/internal/bootstrap"
	"dream-journal-be/internal/config"
	"dream-journal-be/internal/pkg/serverutils"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // voice notes
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Internal-Token",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger, cfg.App.Environment == "production"))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		status := "ok"
		code := fiber.StatusOK
		checks := fiber.Map{"database": "ok", "redis": "ok"}

		if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(ctx.Context()) != nil {
			checks["database"] = "down"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
		if err := c.Redis.Ping(ctx.Context()).Err(); err != nil {
			checks["redis"] = "down"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return ctx.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
	})

	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api)
	c.OAuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)

	c.DreamController.RegisterRoutes(api)
	c.SubscriptionController.RegisterRoutes(api)

	c.InternalController.RegisterRoutes(api)

	c.UpdateHandler.RegisterRoutes(api)
}
