package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/llm"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/mapper"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const explainSystemPrompt = "You are a friendly Korean language tutor. Explain grammar clearly for a learner, " +
	"with short examples in Korean followed by their English translation. Answer in plain text."

type ExplainUsecase interface {
	ExplainGrammar(ctx context.Context, grammarID string) (*entity.ExplainGrammarResponse, error)
}

type ExplainConfig struct {
	DB         *gorm.DB
	Repository repository.GrammarRepository
	// LLM may be nil when no provider is configured.
	LLM llm.Provider
	Log *logrus.Logger
}

type explainUsecase struct {
	cfg ExplainConfig
}

func NewExplainUsecase(cfg ExplainConfig) ExplainUsecase {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return &explainUsecase{cfg: cfg}
}

func (u *explainUsecase) ExplainGrammar(ctx context.Context, grammarID string) (*entity.ExplainGrammarResponse, error) {
	if u.cfg.LLM == nil {
		return nil, ErrExplainUnavailable
	}

	row, err := u.cfg.Repository.FindByGrammarID(u.cfg.DB.WithContext(ctx), grammarID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGrammarNotFound
	}
	if err != nil {
		return nil, err
	}
	grammar, err := mapper.ConvertToGrammarRecord(row)
	if err != nil {
		return nil, err
	}

	text, err := u.cfg.LLM.GenerateText(ctx, explainSystemPrompt, buildExplainPrompt(grammar))
	if err != nil {
		u.cfg.Log.WithFields(logrus.Fields{
			"grammar_id": grammarID,
			"provider":   u.cfg.LLM.Name(),
		}).WithError(err).Warn("grammar explanation failed")
		return nil, fmt.Errorf("%w: %v", ErrExplainUnavailable, err)
	}

	return &entity.ExplainGrammarResponse{
		GrammarID:   grammar.ID,
		Korean:      grammar.Korean,
		Explanation: strings.TrimSpace(text),
	}, nil
}

func buildExplainPrompt(g entity.GrammarRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain the Korean grammar pattern %q (%s).\n", g.Korean, g.English)
	fmt.Fprintf(&b, "Structure: %s\n", g.Structure)
	fmt.Fprintf(&b, "Usage: %s\n", g.Usage)
	if g.Explanation != "" {
		fmt.Fprintf(&b, "Notes: %s\n", g.Explanation)
	}
	for i, ex := range g.Examples {
		fmt.Fprintf(&b, "Example %d: %s (%s)\n", i+1, ex.Korean, ex.English)
	}
	b.WriteString("Cover when to use it, how to conjugate it and common mistakes.")
	return b.String()
}
