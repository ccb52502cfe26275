package route

import (
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/handler"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoute(api fiber.Router, handler handler.ProgressHandler, m *middleware.Middleware) {
	router := api.Group("/progress", m.RequireUser())
	{
		router.Get("/", handler.Get)
		router.Get("/stats", handler.Stats)
		router.Post("/quiz-result", handler.RecordQuizResult)
		router.Post("/study-time", handler.RecordStudyTime)
		router.Put("/weekly-goal", handler.SetWeeklyGoal)
	}

	savedRouter := router.Group("/save-grammar")
	{
		savedRouter.Post("/", handler.SaveGrammar)
		savedRouter.Delete("/:grammar_id", handler.UnsaveGrammar)
		savedRouter.Put("/:grammar_id/mastered", handler.SetMastered)
	}
}
