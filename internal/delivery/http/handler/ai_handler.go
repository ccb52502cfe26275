package handler

import (
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/domain"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/usecase"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/response"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type (
	AIHandler interface {
		ExplainGrammar(ctx *fiber.Ctx) error
	}

	aiHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		usecase   usecase.ExplainUsecase
	}
)

func NewAIHandler(validator *validate.Validator, logger *logrus.Logger, usecase usecase.ExplainUsecase) AIHandler {
	return &aiHandler{
		validator: validator,
		logger:    logger,
		usecase:   usecase,
	}
}

// POST /ai/explain-grammar
func (h *aiHandler) ExplainGrammar(ctx *fiber.Ctx) error {
	var req entity.ExplainGrammarRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.AI_EXPLAIN_FAILED, err, h.logger).Send(ctx)
	}

	result, err := h.usecase.ExplainGrammar(ctx.UserContext(), req.GrammarID)
	if err != nil {
		return response.NewFailed(domain.AI_EXPLAIN_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.AI_EXPLAIN_SUCCESS, result, nil).Send(ctx)
}
