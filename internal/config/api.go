package config

import (
	"errors"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func NewAPI(config *viper.Viper, log *logrus.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      config.GetString("app.name"),
		ErrorHandler: ErrorHandler(log),
		Prefork:      config.GetBool("api.prefork"),
		ReadTimeout:  time.Duration(config.GetInt("api.read_timeout_seconds")) * time.Second,
		WriteTimeout: time.Duration(config.GetInt("api.write_timeout_seconds")) * time.Second,
	})
}

// ErrorHandler renders errors that escaped a handler, e.g. unknown routes or panics caught by recover.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method": ctx.Method(),
				"path":   ctx.Path(),
			}).WithError(err).Error("unhandled request error")
			return response.NewInternalServerError().Send(ctx)
		}

		return response.NewFailed(err.Error(), fiber.NewError(code, ""), log).Send(ctx)
	}
}
