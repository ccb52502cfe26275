package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	internalEntity "github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedGrammar(t *testing.T, db *gorm.DB, records ...entity.GrammarRecord) {
	t.Helper()
	for _, r := range records {
		row, err := mapper.ConvertToGrammarEntity(r)
		require.NoError(t, err)
		require.NoError(t, db.Create(&row).Error)
	}
}

type quizFixture struct {
	db       *gorm.DB
	clock    *fakeClock
	progress ProgressUsecase
	sessions *SessionStore
	quiz     QuizUsecase
}

func newQuizFixture(t *testing.T, progress ProgressUsecase) *quizFixture {
	t.Helper()
	db := newTestDB(t)
	seedGrammar(t, db, grammarBecome, grammarBare, grammarAt,
		entity.GrammarRecord{ID: "int-4", Korean: "V(으)ㄹ 생각이다", English: "To plan to", Structure: "Verb stem + (으)ㄹ 생각이다", Usage: "Used to express plans", Level: entity.LevelIntermediate},
	)

	clock := newFakeClock()
	if progress == nil {
		progress = newProgressUsecase(t, db, clock)
	}
	sessions := NewSessionStore(30 * time.Minute)

	quiz := NewQuizUsecase(QuizConfig{
		DB:         db,
		Repository: repository.NewGrammarRepository(db),
		Generator:  NewQuestionGenerator(GeneratorConfig{}, rand.New(rand.NewSource(1))),
		Progress:   progress,
		Sessions:   sessions,
		Log:        newTestLogger(),
		Now:        clock.Now,
	})
	return &quizFixture{db: db, clock: clock, progress: progress, sessions: sessions, quiz: quiz}
}

func TestQuizGenerate(t *testing.T) {
	f := newQuizFixture(t, nil)
	ctx := context.Background()

	questions, err := f.quiz.Generate(ctx, entity.GenerateQuizRequest{Type: entity.QuizTypeTranslation, IncludeAnswer: true})
	require.NoError(t, err)
	require.Len(t, questions, 3, "defaults to intermediate")
	for _, q := range questions {
		assert.Equal(t, entity.QuizTypeTranslation, q.Type)
		assert.NotEmpty(t, q.CorrectAnswer)
		assert.Equal(t, entity.LevelIntermediate, q.Grammar.Level)
	}

	var usage int
	require.NoError(t, f.db.Model(&internalEntity.Grammar{}).Where("grammar_id = ?", "int-3").Pluck("usage_count", &usage).Error)
	assert.Equal(t, 1, usage)
}

func TestQuizGenerateWithoutAnswers(t *testing.T) {
	f := newQuizFixture(t, nil)

	questions, err := f.quiz.Generate(context.Background(), entity.GenerateQuizRequest{Count: 2, IncludeAnswer: false})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	for _, q := range questions {
		assert.Empty(t, q.CorrectAnswer)
		assert.Empty(t, q.Explanation)
	}
}

func TestQuizGenerateByIDs(t *testing.T) {
	f := newQuizFixture(t, nil)

	questions, err := f.quiz.Generate(context.Background(), entity.GenerateQuizRequest{
		GrammarIDs:    []string{"beg-9", "int-404"},
		Type:          entity.QuizTypeFillBlank,
		IncludeAnswer: true,
	})
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "beg-9", questions[0].GrammarID)
	assert.Equal(t, "에서", questions[0].CorrectAnswer)
}

func TestQuizGenerateErrors(t *testing.T) {
	f := newQuizFixture(t, nil)
	ctx := context.Background()

	_, err := f.quiz.Generate(ctx, entity.GenerateQuizRequest{Type: "essay"})
	assert.ErrorIs(t, err, ErrInvalidQuizType)

	_, err = f.quiz.Generate(ctx, entity.GenerateQuizRequest{Level: "expert"})
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = f.quiz.Generate(ctx, entity.GenerateQuizRequest{Level: entity.LevelAdvanced})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestQuizSessionFlowRecordsProgress(t *testing.T) {
	f := newQuizFixture(t, nil)
	ctx := context.Background()

	view, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 3, Type: entity.QuizTypeTranslation})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionInProgress, view.State)
	assert.Equal(t, 3, view.Total)
	require.NotNil(t, view.Current)
	assert.Empty(t, view.Current.CorrectAnswer)

	// the key is only available server-side; read it through the store
	answers := map[string]string{}
	require.NoError(t, f.sessions.With(view.ID, alice.UserID, func(s *QuizSession) error {
		for _, q := range s.questions {
			answers[q.ID] = q.CorrectAnswer
		}
		return nil
	}))

	var last *entity.AnswerOutcome
	for i := 0; i < 3; i++ {
		current, err := f.quiz.GetSession(ctx, alice, view.ID)
		require.NoError(t, err)

		if i == 1 {
			last, err = f.quiz.Timeout(ctx, alice, view.ID, entity.SessionTimeoutRequest{QuestionID: current.Current.ID})
		} else {
			f.clock.Advance(4 * time.Second)
			last, err = f.quiz.SubmitAnswer(ctx, alice, view.ID, entity.SessionAnswerRequest{
				QuestionID: current.Current.ID,
				Answer:     answers[current.Current.ID],
			})
		}
		require.NoError(t, err)
		assert.True(t, last.Recorded)
		require.NotNil(t, last.Progress)
		assert.Equal(t, i+1, last.Progress.QuizStats.Total)
	}

	require.NotNil(t, last.Summary)
	assert.Equal(t, entity.SessionSummary{Score: 2, Total: 3, BestStreak: 1}, *last.Summary)
	assert.Equal(t, entity.SessionFinished, last.Session.State)

	p, err := f.progress.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 3, p.QuizStats.Total)
	assert.Equal(t, 2, p.QuizStats.Correct)
}

func TestQuizSessionOwnerCheck(t *testing.T) {
	f := newQuizFixture(t, nil)
	ctx := context.Background()

	view, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 2})
	require.NoError(t, err)

	mallory := entity.UserContext{UserID: "mallory"}
	_, err = f.quiz.GetSession(ctx, mallory, view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.quiz.SubmitAnswer(ctx, mallory, view.ID, entity.SessionAnswerRequest{QuestionID: view.Current.ID})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.quiz.Abandon(ctx, mallory, view.ID), ErrSessionNotFound)

	require.NoError(t, f.quiz.Abandon(ctx, alice, view.ID))
	_, err = f.quiz.GetSession(ctx, alice, view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizAbandonRecordsNothingForOpenQuestion(t *testing.T) {
	f := newQuizFixture(t, nil)
	ctx := context.Background()

	view, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 3})
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswer(ctx, alice, view.ID, entity.SessionAnswerRequest{QuestionID: view.Current.ID, Answer: "?"})
	require.NoError(t, err)
	require.NoError(t, f.quiz.Abandon(ctx, alice, view.ID))

	p, err := f.progress.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, p.QuizStats.Total)
}

// flakyProgress fails the first n quiz result writes.
type flakyProgress struct {
	ProgressUsecase
	failures int
	recorded []entity.QuizResult
	users    []string
}

func (p *flakyProgress) RecordQuizResult(_ context.Context, user entity.UserContext, result entity.QuizResult) (*entity.UserProgress, error) {
	if p.failures > 0 {
		p.failures--
		return nil, ErrProgressUnavailable
	}
	p.recorded = append(p.recorded, result)
	p.users = append(p.users, user.UserID)
	return &entity.UserProgress{UserID: user.UserID, QuizStats: entity.QuizStats{Total: len(p.recorded)}}, nil
}

func TestQuizFailedRecordingIsRetried(t *testing.T) {
	progress := &flakyProgress{failures: 1}
	f := newQuizFixture(t, progress)
	ctx := context.Background()

	view, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 3})
	require.NoError(t, err)

	out, err := f.quiz.Timeout(ctx, alice, view.ID, entity.SessionTimeoutRequest{QuestionID: view.Current.ID})
	assert.True(t, errors.Is(err, ErrProgressUnavailable))
	require.NotNil(t, out, "the outcome survives a failed write")
	assert.False(t, out.Recorded)
	assert.Equal(t, 1, out.Session.Pending)
	assert.Equal(t, 1, out.Session.Index, "the session still advanced")

	synced, err := f.quiz.Sync(ctx, alice, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, synced.Pending)
	require.Len(t, progress.recorded, 1)
	assert.False(t, progress.recorded[0].IsCorrect)
}

func TestQuizAbandonRecordsPendingResults(t *testing.T) {
	progress := &flakyProgress{failures: 1}
	f := newQuizFixture(t, progress)
	ctx := context.Background()

	view, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 3})
	require.NoError(t, err)

	_, err = f.quiz.Timeout(ctx, alice, view.ID, entity.SessionTimeoutRequest{QuestionID: view.Current.ID})
	require.ErrorIs(t, err, ErrProgressUnavailable)
	require.Empty(t, progress.recorded)

	require.NoError(t, f.quiz.Abandon(ctx, alice, view.ID))
	require.Len(t, progress.recorded, 1, "the timed-out question is recorded on abandon")
	assert.False(t, progress.recorded[0].IsCorrect)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestQuizAbandonKeepsSessionWhenRecordingFails(t *testing.T) {
	progress := &flakyProgress{failures: 2}
	f := newQuizFixture(t, progress)
	ctx := context.Background()

	view, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 3})
	require.NoError(t, err)
	_, err = f.quiz.Timeout(ctx, alice, view.ID, entity.SessionTimeoutRequest{QuestionID: view.Current.ID})
	require.ErrorIs(t, err, ErrProgressUnavailable)

	err = f.quiz.Abandon(ctx, alice, view.ID)
	assert.ErrorIs(t, err, ErrProgressUnavailable)
	assert.Equal(t, 1, f.sessions.Len(), "the session survives for a retry")

	require.NoError(t, f.quiz.Abandon(ctx, alice, view.ID))
	assert.Len(t, progress.recorded, 1)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestQuizSweepRecordsPendingResults(t *testing.T) {
	progress := &flakyProgress{failures: 2}
	f := newQuizFixture(t, progress)
	ctx := context.Background()

	view, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 3})
	require.NoError(t, err)
	_, err = f.quiz.Timeout(ctx, alice, view.ID, entity.SessionTimeoutRequest{QuestionID: view.Current.ID})
	require.ErrorIs(t, err, ErrProgressUnavailable)

	f.clock.Advance(31 * time.Minute)
	assert.Equal(t, 0, f.quiz.SweepSessions(ctx), "kept while recording still fails")
	assert.Equal(t, 1, f.sessions.Len())
	assert.Empty(t, progress.recorded)

	assert.Equal(t, 1, f.quiz.SweepSessions(ctx))
	assert.Equal(t, 0, f.sessions.Len())
	require.Len(t, progress.recorded, 1)
	assert.Equal(t, []string{alice.UserID}, progress.users)
}

func TestQuizSweepSessions(t *testing.T) {
	f := newQuizFixture(t, nil)
	ctx := context.Background()

	_, err := f.quiz.StartSession(ctx, alice, entity.StartSessionRequest{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, f.quiz.SweepSessions(ctx))

	f.clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, f.quiz.SweepSessions(ctx))
	assert.Equal(t, 0, f.sessions.Len())
}
