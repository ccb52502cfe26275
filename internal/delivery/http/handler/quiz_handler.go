package handler

import (
	"errors"
	"strings"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/domain"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/middleware"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/usecase"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/response"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const defaultTypedQuizCount = 5

type (
	QuizHandler interface {
		Generate(ctx *fiber.Ctx) error
		GenerateByType(ctx *fiber.Ctx) error
		StartSession(ctx *fiber.Ctx) error
		GetSession(ctx *fiber.Ctx) error
		SubmitAnswer(ctx *fiber.Ctx) error
		Timeout(ctx *fiber.Ctx) error
		Sync(ctx *fiber.Ctx) error
		Abandon(ctx *fiber.Ctx) error
	}

	quizHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		usecase   usecase.QuizUsecase
	}
)

func NewQuizHandler(validator *validate.Validator, logger *logrus.Logger, usecase usecase.QuizUsecase) QuizHandler {
	return &quizHandler{
		validator: validator,
		logger:    logger,
		usecase:   usecase,
	}
}

// GET /quiz/generate?level=intermediate&count=10&type=mixed&grammar_ids=int-1,int-2&include_answer=true
func (h *quizHandler) Generate(ctx *fiber.Ctx) error {
	var query entity.GenerateQuizQuery
	if err := h.validator.ParseAndValidateQuery(ctx, &query); err != nil {
		return response.NewFailed(domain.QUIZ_GENERATE_FAILED, err, h.logger).Send(ctx)
	}

	return h.generate(ctx, query, entity.QuizType(strings.TrimSpace(query.Type)), 0)
}

// GET /quiz/generate/:type?level=intermediate&count=5
func (h *quizHandler) GenerateByType(ctx *fiber.Ctx) error {
	var query entity.GenerateQuizQuery
	if err := h.validator.ParseAndValidateQuery(ctx, &query); err != nil {
		return response.NewFailed(domain.QUIZ_GENERATE_FAILED, err, h.logger).Send(ctx)
	}

	return h.generate(ctx, query, entity.QuizType(ctx.Params("type")), defaultTypedQuizCount)
}

func (h *quizHandler) generate(ctx *fiber.Ctx, query entity.GenerateQuizQuery, quizType entity.QuizType, defaultCount int) error {
	if quizType != "" && !quizType.Valid() {
		return response.NewFailed(domain.QUIZ_GENERATE_FAILED, fiber.NewError(fiber.StatusBadRequest, "invalid quiz type"), h.logger).Send(ctx)
	}

	req := entity.GenerateQuizRequest{
		Level:         entity.GrammarLevel(strings.ToLower(query.Level)),
		Count:         query.Count,
		Type:          quizType,
		GrammarIDs:    splitIDs(query.GrammarIDs),
		IncludeAnswer: query.IncludeAnswer == nil || *query.IncludeAnswer,
	}
	if req.Count == 0 {
		req.Count = defaultCount
	}

	questions, err := h.usecase.Generate(ctx.UserContext(), req)
	if err != nil {
		return response.NewFailed(domain.QUIZ_GENERATE_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.QUIZ_GENERATE_SUCCESS, questions, fiber.Map{"count": len(questions)}).Send(ctx)
}

// POST /quiz/sessions
func (h *quizHandler) StartSession(ctx *fiber.Ctx) error {
	var req entity.StartSessionRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.QUIZ_SESSION_START_FAILED, err, h.logger).Send(ctx)
	}
	if req.Type != "" && !req.Type.Valid() {
		return response.NewFailed(domain.QUIZ_SESSION_START_FAILED, fiber.NewError(fiber.StatusBadRequest, "invalid quiz type"), h.logger).Send(ctx)
	}

	session, err := h.usecase.StartSession(ctx.UserContext(), middleware.CurrentUser(ctx), req)
	if err != nil {
		return response.NewFailed(domain.QUIZ_SESSION_START_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.QUIZ_SESSION_START_SUCCESS, session, nil).WithStatus(fiber.StatusCreated).Send(ctx)
}

// GET /quiz/sessions/:session_id
func (h *quizHandler) GetSession(ctx *fiber.Ctx) error {
	session, err := h.usecase.GetSession(ctx.UserContext(), middleware.CurrentUser(ctx), ctx.Params("session_id"))
	if err != nil {
		return response.NewFailed(domain.QUIZ_SESSION_GET_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.QUIZ_SESSION_GET_SUCCESS, session, nil).Send(ctx)
}

// POST /quiz/sessions/:session_id/answer
func (h *quizHandler) SubmitAnswer(ctx *fiber.Ctx) error {
	var req entity.SessionAnswerRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.QUIZ_SESSION_ANSWER_FAILED, err, h.logger).Send(ctx)
	}

	outcome, err := h.usecase.SubmitAnswer(ctx.UserContext(), middleware.CurrentUser(ctx), ctx.Params("session_id"), req)
	return h.sendOutcome(ctx, outcome, err, domain.QUIZ_SESSION_ANSWER_SUCCESS, domain.QUIZ_SESSION_ANSWER_FAILED)
}

// POST /quiz/sessions/:session_id/timeout
func (h *quizHandler) Timeout(ctx *fiber.Ctx) error {
	var req entity.SessionTimeoutRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.QUIZ_SESSION_TIMEOUT_FAILED, err, h.logger).Send(ctx)
	}

	outcome, err := h.usecase.Timeout(ctx.UserContext(), middleware.CurrentUser(ctx), ctx.Params("session_id"), req)
	return h.sendOutcome(ctx, outcome, err, domain.QUIZ_SESSION_TIMEOUT_SUCCESS, domain.QUIZ_SESSION_TIMEOUT_FAILED)
}

// sendOutcome keeps the answer outcome in the body even when recording failed, so the client can sync later.
func (h *quizHandler) sendOutcome(ctx *fiber.Ctx, outcome *entity.AnswerOutcome, err error, okMsg, failMsg string) error {
	if err != nil {
		res := response.NewFailed(failMsg, toFiberError(err), h.logger)
		if outcome != nil && errors.Is(err, usecase.ErrProgressUnavailable) {
			res = res.WithData(outcome)
		}
		return res.Send(ctx)
	}

	return response.NewSuccess(okMsg, outcome, nil).Send(ctx)
}

// POST /quiz/sessions/:session_id/sync
func (h *quizHandler) Sync(ctx *fiber.Ctx) error {
	session, err := h.usecase.Sync(ctx.UserContext(), middleware.CurrentUser(ctx), ctx.Params("session_id"))
	if err != nil {
		res := response.NewFailed(domain.QUIZ_SESSION_SYNC_FAILED, toFiberError(err), h.logger)
		if session != nil {
			res = res.WithData(session)
		}
		return res.Send(ctx)
	}

	return response.NewSuccess(domain.QUIZ_SESSION_SYNC_SUCCESS, session, nil).Send(ctx)
}

// DELETE /quiz/sessions/:session_id
func (h *quizHandler) Abandon(ctx *fiber.Ctx) error {
	if err := h.usecase.Abandon(ctx.UserContext(), middleware.CurrentUser(ctx), ctx.Params("session_id")); err != nil {
		return response.NewFailed(domain.QUIZ_SESSION_ABANDON_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.QUIZ_SESSION_ABANDON_SUCCESS, nil, nil).Send(ctx)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
