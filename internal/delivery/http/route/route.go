package route

import (
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/handler"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type RouteConfig struct {
	Api             *fiber.App
	Middleware      *middleware.Middleware
	QuizHandler     handler.QuizHandler
	ProgressHandler handler.ProgressHandler
	AIHandler       handler.AIHandler
}

func Setup(c *RouteConfig) {
	c.Api.Use(recover.New())
	c.Api.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
	}))
	c.Api.Use(c.Middleware.CorsMiddleware())

	c.Api.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	SetupQuizRoute(c.Api, c.QuizHandler, c.Middleware)
	SetupProgressRoute(c.Api, c.ProgressHandler, c.Middleware)
	SetupAIRoute(c.Api, c.AIHandler, c.Middleware)
}
