package route

import (
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/handler"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupAIRoute(api fiber.Router, handler handler.AIHandler, m *middleware.Middleware) {
	router := api.Group("/ai", m.RequireUser())
	{
		router.Post("/explain-grammar", handler.ExplainGrammar)
	}
}
