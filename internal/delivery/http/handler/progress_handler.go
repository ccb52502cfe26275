package handler

import (
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

type (
	ProgressHandler interface {
		Get(ctx *fiber.Ctx) error
		Stats(ctx *fiber.Ctx) error
		SaveGrammar(ctx *fiber.Ctx) error
		UnsaveGrammar(ctx *fiber.Ctx) error
		SetMastered(ctx *fiber.Ctx) error
		RecordQuizResult(ctx *fiber.Ctx) error
		RecordStudyTime(ctx *fiber.Ctx) error
		SetWeeklyGoal(ctx *fiber.Ctx) error
	}

	progressHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		usecase   usecase.ProgressUsecase
	}
)

func NewProgressHandler(validator *validate.Validator, logger *logrus.Logger, usecase usecase.ProgressUsecase) ProgressHandler {
	return &progressHandler{
		validator: validator,
		logger:    logger,
		usecase:   usecase,
	}
}

// GET /progress
func (h *progressHandler) Get(ctx *fiber.Ctx) error {
	progress, err := h.usecase.Get(ctx.UserContext(), middleware.CurrentUser(ctx))
	if err != nil {
		return response.NewFailed(domain.PROGRESS_GET_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_GET_SUCCESS, progress, nil).Send(ctx)
}

// GET /progress/stats
func (h *progressHandler) Stats(ctx *fiber.Ctx) error {
	stats, err := h.usecase.Stats(ctx.UserContext(), middleware.CurrentUser(ctx))
	if err != nil {
		return response.NewFailed(domain.PROGRESS_STATS_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_STATS_SUCCESS, stats, nil).Send(ctx)
}

// POST /progress/save-grammar
func (h *progressHandler) SaveGrammar(ctx *fiber.Ctx) error {
	var req entity.SaveGrammarRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.PROGRESS_SAVE_GRAMMAR_FAILED, err, h.logger).Send(ctx)
	}

	progress, err := h.usecase.SaveGrammar(ctx.UserContext(), middleware.CurrentUser(ctx), strings.TrimSpace(req.GrammarID))
	if err != nil {
		return response.NewFailed(domain.PROGRESS_SAVE_GRAMMAR_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_SAVE_GRAMMAR_SUCCESS, progress, nil).Send(ctx)
}

// DELETE /progress/save-grammar/:grammar_id
func (h *progressHandler) UnsaveGrammar(ctx *fiber.Ctx) error {
	grammarID := ctx.Params("grammar_id")
	if grammarID == "" {
		return response.NewFailed(domain.PROGRESS_UNSAVE_FAILED, fiber.NewError(fiber.StatusBadRequest, "grammar_id is required"), h.logger).Send(ctx)
	}

	progress, err := h.usecase.UnsaveGrammar(ctx.UserContext(), middleware.CurrentUser(ctx), grammarID)
	if err != nil {
		return response.NewFailed(domain.PROGRESS_UNSAVE_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_UNSAVE_SUCCESS, progress, nil).Send(ctx)
}

// PUT /progress/save-grammar/:grammar_id/mastered
func (h *progressHandler) SetMastered(ctx *fiber.Ctx) error {
	grammarID := ctx.Params("grammar_id")
	if grammarID == "" {
		return response.NewFailed(domain.PROGRESS_MASTERED_FAILED, fiber.NewError(fiber.StatusBadRequest, "grammar_id is required"), h.logger).Send(ctx)
	}

	var req entity.MasteredRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.PROGRESS_MASTERED_FAILED, err, h.logger).Send(ctx)
	}

	progress, err := h.usecase.SetMastered(ctx.UserContext(), middleware.CurrentUser(ctx), grammarID, req.Mastered)
	if err != nil {
		return response.NewFailed(domain.PROGRESS_MASTERED_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_MASTERED_SUCCESS, progress, nil).Send(ctx)
}

// POST /progress/quiz-result
func (h *progressHandler) RecordQuizResult(ctx *fiber.Ctx) error {
	var req entity.QuizResultRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.PROGRESS_QUIZ_RESULT_FAILED, err, h.logger).Send(ctx)
	}
	if !req.QuizType.Concrete() {
		return response.NewFailed(domain.PROGRESS_QUIZ_RESULT_FAILED, fiber.NewError(fiber.StatusBadRequest, "invalid quiz type"), h.logger).Send(ctx)
	}

	progress, err := h.usecase.RecordQuizResult(ctx.UserContext(), middleware.CurrentUser(ctx), entity.QuizResult{
		GrammarID:        req.GrammarID,
		QuizType:         req.QuizType,
		IsCorrect:        req.IsCorrect,
		TimeSpentSeconds: req.TimeSpent,
		Attempts:         req.Attempts,
	})
	if err != nil {
		return response.NewFailed(domain.PROGRESS_QUIZ_RESULT_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_QUIZ_RESULT_SUCCESS, progress, nil).Send(ctx)
}

// POST /progress/study-time
func (h *progressHandler) RecordStudyTime(ctx *fiber.Ctx) error {
	var req entity.StudyTimeRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.PROGRESS_STUDY_TIME_FAILED, err, h.logger).Send(ctx)
	}

	progress, err := h.usecase.RecordStudyTime(ctx.UserContext(), middleware.CurrentUser(ctx), req.Duration, req.GrammarIDs)
	if err != nil {
		return response.NewFailed(domain.PROGRESS_STUDY_TIME_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_STUDY_TIME_SUCCESS, progress, nil).Send(ctx)
}

// PUT /progress/weekly-goal
func (h *progressHandler) SetWeeklyGoal(ctx *fiber.Ctx) error {
	var req entity.WeeklyGoalRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.PROGRESS_WEEKLY_GOAL_FAILED, err, h.logger).Send(ctx)
	}

	progress, err := h.usecase.SetWeeklyGoal(ctx.UserContext(), middleware.CurrentUser(ctx), req.Target)
	if err != nil {
		return response.NewFailed(domain.PROGRESS_WEEKLY_GOAL_FAILED, toFiberError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PROGRESS_WEEKLY_GOAL_SUCCESS, progress, nil).Send(ctx)
}
