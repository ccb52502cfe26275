package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	internalEntity "github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/mapper"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const (
	defaultQuizCount = 10
	maxQuizCount     = 50
)

type QuizUsecase interface {
	Generate(ctx context.Context, req entity.GenerateQuizRequest) ([]entity.QuizQuestion, error)
	StartSession(ctx context.Context, user entity.UserContext, req entity.StartSessionRequest) (*entity.SessionView, error)
	GetSession(ctx context.Context, user entity.UserContext, sessionID string) (*entity.SessionView, error)
	SubmitAnswer(ctx context.Context, user entity.UserContext, sessionID string, req entity.SessionAnswerRequest) (*entity.AnswerOutcome, error)
	Timeout(ctx context.Context, user entity.UserContext, sessionID string, req entity.SessionTimeoutRequest) (*entity.AnswerOutcome, error)
	Sync(ctx context.Context, user entity.UserContext, sessionID string) (*entity.SessionView, error)
	Abandon(ctx context.Context, user entity.UserContext, sessionID string) error
	SweepSessions(ctx context.Context) int
}

type QuizConfig struct {
	DB         *gorm.DB
	Repository repository.GrammarRepository
	Generator  *QuestionGenerator
	Progress   ProgressUsecase
	Sessions   *SessionStore
	Config     *viper.Viper
	Log        *logrus.Logger
	Now        func() time.Time
}

type quizUsecase struct {
	cfg QuizConfig

	sessionSize int
	timeLimit   time.Duration
}

func NewQuizUsecase(cfg QuizConfig) QuizUsecase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if cfg.Generator == nil {
		cfg.Generator = NewQuestionGenerator(GeneratorConfig{}, nil)
	}
	if cfg.Sessions == nil {
		cfg.Sessions = NewSessionStore(30 * time.Minute)
	}

	u := &quizUsecase{
		cfg:         cfg,
		sessionSize: defaultQuizCount,
		timeLimit:   60 * time.Second,
	}
	if cfg.Config != nil {
		if v := cfg.Config.GetInt("quiz.session_size"); v > 0 {
			u.sessionSize = v
		}
		if v := cfg.Config.GetInt("quiz.time_limit_seconds"); v > 0 {
			u.timeLimit = time.Duration(v) * time.Second
		}
	}
	return u
}

func (u *quizUsecase) Generate(ctx context.Context, req entity.GenerateQuizRequest) ([]entity.QuizQuestion, error) {
	if req.Type == "" {
		req.Type = entity.QuizTypeMixed
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidQuizType
	}
	if req.Level == "" {
		req.Level = entity.LevelIntermediate
	}
	if !req.Level.Valid() {
		return nil, ErrInvalidLevel
	}
	if req.Count <= 0 {
		req.Count = defaultQuizCount
	}
	if req.Count > maxQuizCount {
		req.Count = maxQuizCount
	}

	records, err := u.findGrammar(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoQuestions
	}

	questions := make([]entity.QuizQuestion, 0, len(records))
	for _, record := range records {
		q := u.cfg.Generator.Generate(record, req.Type)
		if !req.IncludeAnswer {
			q = q.WithoutAnswer()
		}
		questions = append(questions, q)
	}

	u.touchUsage(ctx, questions)

	u.cfg.Log.WithFields(logrus.Fields{
		"level": req.Level,
		"type":  req.Type,
		"count": len(questions),
	}).Debug("quiz generated")
	return questions, nil
}

// touchUsage bumps usage counters; a failure here never fails generation.
func (u *quizUsecase) touchUsage(ctx context.Context, questions []entity.QuizQuestion) {
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.GrammarID)
	}
	if err := u.cfg.Repository.IncrementUsageCount(u.cfg.DB.WithContext(ctx), ids); err != nil {
		u.cfg.Log.WithError(err).Warn("failed to increment grammar usage count")
	}
}

func (u *quizUsecase) findGrammar(ctx context.Context, req entity.GenerateQuizRequest) ([]entity.GrammarRecord, error) {
	db := u.cfg.DB.WithContext(ctx)

	var (
		rows []internalEntity.Grammar
		err  error
	)
	if len(req.GrammarIDs) > 0 {
		rows, err = u.cfg.Repository.FindByGrammarIDs(db, req.GrammarIDs)
	} else {
		rows, err = u.cfg.Repository.FindRandomByLevel(db, string(req.Level), req.Count)
	}
	if err != nil {
		return nil, err
	}

	records, err := mapper.ConvertToGrammarRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(req.GrammarIDs) > 0 {
		u.cfg.Generator.ShuffleRecords(records)
		if len(records) > req.Count {
			records = records[:req.Count]
		}
	}
	return records, nil
}

func (u *quizUsecase) StartSession(ctx context.Context, user entity.UserContext, req entity.StartSessionRequest) (*entity.SessionView, error) {
	count := req.Count
	if count <= 0 {
		count = u.sessionSize
	}
	questions, err := u.Generate(ctx, entity.GenerateQuizRequest{
		Level:         req.Level,
		Count:         count,
		Type:          req.Type,
		GrammarIDs:    req.GrammarIDs,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, err
	}

	limit := u.timeLimit
	if req.TimeLimitSeconds > 0 {
		limit = time.Duration(req.TimeLimitSeconds) * time.Second
	}

	session := NewQuizSession(uuid.NewString(), user.UserID, u.cfg.Now)
	if err := session.Start(questions, limit); err != nil {
		return nil, err
	}
	u.cfg.Sessions.Put(session)

	u.cfg.Log.WithFields(logrus.Fields{
		"user_id":    user.UserID,
		"session_id": session.ID,
		"total":      len(questions),
	}).Info("quiz session started")

	view := session.View()
	return &view, nil
}

func (u *quizUsecase) GetSession(ctx context.Context, user entity.UserContext, sessionID string) (*entity.SessionView, error) {
	var view entity.SessionView
	err := u.cfg.Sessions.With(sessionID, user.UserID, func(session *QuizSession) error {
		view = session.View()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (u *quizUsecase) SubmitAnswer(ctx context.Context, user entity.UserContext, sessionID string, req entity.SessionAnswerRequest) (*entity.AnswerOutcome, error) {
	return u.endQuestion(ctx, user, sessionID, func(session *QuizSession) (QuestionOutcome, error) {
		return session.Submit(req.QuestionID, req.Answer)
	})
}

func (u *quizUsecase) Timeout(ctx context.Context, user entity.UserContext, sessionID string, req entity.SessionTimeoutRequest) (*entity.AnswerOutcome, error) {
	return u.endQuestion(ctx, user, sessionID, func(session *QuizSession) (QuestionOutcome, error) {
		return session.Timeout(req.QuestionID)
	})
}

// endQuestion advances the session, then folds every pending result into progress in order.
// When recording fails the outcome is still returned, alongside ErrProgressUnavailable.
func (u *quizUsecase) endQuestion(ctx context.Context, user entity.UserContext, sessionID string, end func(*QuizSession) (QuestionOutcome, error)) (*entity.AnswerOutcome, error) {
	var (
		outcome  *entity.AnswerOutcome
		flushErr error
	)
	err := u.cfg.Sessions.With(sessionID, user.UserID, func(session *QuizSession) error {
		res, err := end(session)
		if err != nil {
			return err
		}

		progress, err := u.flush(ctx, user, session)
		flushErr = err

		outcome = &entity.AnswerOutcome{
			QuestionID:    res.Question.ID,
			IsCorrect:     res.Result.IsCorrect,
			TimedOut:      res.TimedOut,
			CorrectAnswer: res.Question.CorrectAnswer,
			Explanation:   res.Question.Explanation,
			Session:       session.View(),
			Recorded:      len(session.Pending()) == 0,
			Progress:      progress,
			Summary:       res.Summary,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, flushErr
}

func (u *quizUsecase) Sync(ctx context.Context, user entity.UserContext, sessionID string) (*entity.SessionView, error) {
	var view entity.SessionView
	err := u.cfg.Sessions.With(sessionID, user.UserID, func(session *QuizSession) error {
		_, err := u.flush(ctx, user, session)
		view = session.View()
		return err
	})
	if err != nil && !errors.Is(err, ErrProgressUnavailable) {
		return nil, err
	}
	return &view, err
}

// Abandon records the results already earned, then drops the session. The in-flight question contributes nothing.
// When recording fails the session is kept, so the caller can sync or abandon again.
func (u *quizUsecase) Abandon(ctx context.Context, user entity.UserContext, sessionID string) error {
	err := u.cfg.Sessions.With(sessionID, user.UserID, func(session *QuizSession) error {
		if _, err := u.flush(ctx, user, session); err != nil {
			return err
		}
		return u.cfg.Sessions.Remove(sessionID, user.UserID)
	})
	if err != nil {
		return err
	}

	u.cfg.Log.WithFields(logrus.Fields{
		"user_id":    user.UserID,
		"session_id": sessionID,
	}).Info("quiz session abandoned")
	return nil
}

// SweepSessions drops idle sessions after recording their pending results.
// A session whose results still cannot be recorded goes back to the store for the next sweep.
func (u *quizUsecase) SweepSessions(ctx context.Context) int {
	dropped := 0
	for _, session := range u.cfg.Sessions.Sweep() {
		session.Lock()
		_, err := u.flush(ctx, entity.UserContext{UserID: session.UserID}, session)
		pending := len(session.Pending())
		session.Unlock()

		if err != nil {
			u.cfg.Sessions.Put(session)
			u.cfg.Log.WithFields(logrus.Fields{
				"user_id":    session.UserID,
				"session_id": session.ID,
				"pending":    pending,
			}).WithError(err).Warn("expired quiz session kept until its results are recorded")
			continue
		}
		dropped++
	}
	return dropped
}

// flush records pending results oldest first and stops at the first failure.
func (u *quizUsecase) flush(ctx context.Context, user entity.UserContext, session *QuizSession) (*entity.UserProgress, error) {
	var progress *entity.UserProgress
	for _, result := range session.Pending() {
		p, err := u.cfg.Progress.RecordQuizResult(ctx, user, result)
		if err != nil {
			return progress, err
		}
		session.Ack(1)
		progress = p
	}
	return progress, nil
}
