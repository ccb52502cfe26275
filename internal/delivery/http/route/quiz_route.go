package route

import (
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/handler"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoute(api fiber.Router, handler handler.QuizHandler, m *middleware.Middleware) {
	router := api.Group("/quiz")
	{
		router.Get("/generate", handler.Generate)
		router.Get("/generate/:type", handler.GenerateByType)
	}

	sessionRouter := router.Group("/sessions", m.RequireUser())
	{
		sessionRouter.Post("/", handler.StartSession)
		sessionRouter.Get("/:session_id", handler.GetSession)
		sessionRouter.Post("/:session_id/answer", handler.SubmitAnswer)
		sessionRouter.Post("/:session_id/timeout", handler.Timeout)
		sessionRouter.Post("/:session_id/sync", handler.Sync)
		sessionRouter.Delete("/:session_id", handler.Abandon)
	}
}
