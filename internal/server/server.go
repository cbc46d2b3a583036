package server

import (
	"context"
	"log"

	"gymflow-be/internal/bootstrap"
	"gymflow-be/internal/config"
	"gymflow-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: serverutils.FiberErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// Traces every HTTP request; spans are dropped when no provider is configured.
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"service": "gymflow-be"}))
	})

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

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api, c.OwnerAuth, c.MemberAuth)
	c.PlanController.RegisterRoutes(api, c.OwnerAuth)
	c.MemberController.RegisterRoutes(api, c.OwnerAuth)
	c.CheckinController.RegisterRoutes(api, c.OwnerAuth, c.MemberAuth)

	c.CheckinFeedHandler.RegisterRoutes(api, c.OwnerAuth)
}
