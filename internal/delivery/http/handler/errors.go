package handler

import (
	"errors"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/usecase"
	"github.com/gofiber/fiber/v2"
)

// toFiberError maps usecase errors onto HTTP status codes.
func toFiberError(err error) *fiber.Error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}

	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrInvalidQuizType),
		errors.Is(err, usecase.ErrInvalidLevel),
		errors.Is(err, usecase.ErrSessionNotStarted),
		errors.Is(err, usecase.ErrSessionAlreadyStarted):
		code = fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrNoQuestions),
		errors.Is(err, usecase.ErrSessionNotFound),
		errors.Is(err, usecase.ErrGrammarNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, usecase.ErrSessionFinished),
		errors.Is(err, usecase.ErrQuestionMismatch):
		code = fiber.StatusConflict
	case errors.Is(err, usecase.ErrProgressUnavailable):
		// the wrapped storage error is already logged by the usecase
		return fiber.NewError(fiber.StatusServiceUnavailable, usecase.ErrProgressUnavailable.Error())
	case errors.Is(err, usecase.ErrExplainUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, usecase.ErrExplainUnavailable.Error())
	}
	return fiber.NewError(code, err.Error())
}
