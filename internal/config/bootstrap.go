package config

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/handler"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/middleware"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/route"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/usecase"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/llm"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/validate"
	"github.com/evandrarf/hangeul-quiz-be/internal/scheduler"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	Api       *fiber.App
	Config    *viper.Viper
	DB        *gorm.DB
	Log       *logrus.Logger
	Validator *validate.Validator
}

// Bootstrap wires every layer and returns the background scheduler, already started.
func Bootstrap(config *BootstrapConfig) *scheduler.Scheduler {

	mid := middleware.NewMiddleware(&middleware.MiddlewareConfig{
		Log:    config.Log,
		Config: config.Config,
	})

	provider, err := llm.NewProvider(context.Background(), llm.ProviderConfig{
		Provider: config.Config.GetString("llm.provider"),
		APIKey:   config.Config.GetString("llm.api_key"),
		Model:    config.Config.GetString("llm.model"),
		BaseURL:  config.Config.GetString("llm.base_url"),
	})
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			config.Log.WithError(err).Warn("llm provider unavailable")
		}
		provider = nil
	}

	grammarRepo := repository.NewGrammarRepository(config.DB)
	progressRepo := repository.NewUserProgressRepository(config.DB)

	progressUsecase := usecase.NewProgressUsecase(usecase.ProgressConfig{
		DB:         config.DB,
		Repository: progressRepo,
		Config:     config.Config,
		Log:        config.Log,
	})

	generator := usecase.NewQuestionGenerator(usecase.GeneratorConfig{
		DistractorPool:  config.Config.GetStringSlice("quiz.distractor_pool"),
		FillBlankPolicy: usecase.FillBlankPolicy(config.Config.GetString("quiz.fill_blank_policy")),
	}, rand.New(rand.NewSource(time.Now().UnixNano())))

	sessions := usecase.NewSessionStore(time.Duration(config.Config.GetInt("quiz.session_ttl_minutes")) * time.Minute)

	quizUsecase := usecase.NewQuizUsecase(usecase.QuizConfig{
		DB:         config.DB,
		Repository: grammarRepo,
		Generator:  generator,
		Progress:   progressUsecase,
		Sessions:   sessions,
		Config:     config.Config,
		Log:        config.Log,
	})

	explainUsecase := usecase.NewExplainUsecase(usecase.ExplainConfig{
		DB:         config.DB,
		Repository: grammarRepo,
		LLM:        provider,
		Log:        config.Log,
	})

	quizHandler := handler.NewQuizHandler(config.Validator, config.Log, quizUsecase)
	progressHandler := handler.NewProgressHandler(config.Validator, config.Log, progressUsecase)
	aiHandler := handler.NewAIHandler(config.Validator, config.Log, explainUsecase)

	route.Setup(&route.RouteConfig{
		Api:             config.Api,
		Middleware:      mid,
		QuizHandler:     quizHandler,
		ProgressHandler: progressHandler,
		AIHandler:       aiHandler,
	})

	jobs := scheduler.New(scheduler.Config{
		Sessions:    quizUsecase,
		WeeklyGoals: progressUsecase,
		Log:         config.Log,
	})
	if err := jobs.Start(); err != nil {
		config.Log.WithError(err).Error("failed to start scheduler")
	}

	return jobs
}
