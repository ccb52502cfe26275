package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	internalEntity "github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var alice = entity.UserContext{UserID: "alice"}

func newProgressUsecase(t *testing.T, db *gorm.DB, clock *fakeClock) ProgressUsecase {
	t.Helper()
	config := viper.New()
	config.Set("progress.weekly_goal_target", 600)
	return NewProgressUsecase(ProgressConfig{
		DB:         db,
		Repository: repository.NewUserProgressRepository(db),
		Config:     config,
		Log:        newTestLogger(),
		Now:        clock.Now,
	})
}

func TestProgressGetCreatesAggregateLazily(t *testing.T) {
	db := newTestDB(t)
	u := newProgressUsecase(t, db, newFakeClock())

	p, err := u.Get(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, "alice", p.UserID)
	assert.Zero(t, p.QuizStats.Total)
	assert.Equal(t, 600, p.WeeklyGoal.Target)
	assert.Equal(t, entity.LevelBeginner, p.CurrentLevel)
	assert.Empty(t, p.StudySessions)

	var count int64
	require.NoError(t, db.Model(&internalEntity.UserProgress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = u.Get(context.Background(), alice)
	require.NoError(t, err)
	require.NoError(t, db.Model(&internalEntity.UserProgress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "a second read does not create another row")
}

func TestProgressRecordQuizResultPersists(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	u := newProgressUsecase(t, db, clock)
	ctx := context.Background()

	for i, seconds := range []float64{10, 20, 30} {
		_, err := u.RecordQuizResult(ctx, alice, entity.QuizResult{
			GrammarID:        "int-1",
			QuizType:         entity.QuizTypeTranslation,
			IsCorrect:        i != 1,
			TimeSpentSeconds: seconds,
			Attempts:         1,
		})
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	p, err := u.Get(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, entity.QuizStats{Total: 3, Correct: 2, Streak: 1, BestStreak: 1, AverageTimeSeconds: 20}, p.QuizStats)
	require.Len(t, p.StudySessions, 1)
	results := p.StudySessions[0].QuizResults
	require.Len(t, results, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{results[0].TimeSpentSeconds, results[1].TimeSpentSeconds, results[2].TimeSpentSeconds})
	assert.False(t, results[1].IsCorrect)
}

func TestProgressRecordStudyTimeSameDay(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	u := newProgressUsecase(t, db, clock)
	ctx := context.Background()

	_, err := u.RecordStudyTime(ctx, alice, 300, []string{"int-1", "int-2"})
	require.NoError(t, err)
	clock.Advance(3 * time.Hour)
	_, err = u.RecordStudyTime(ctx, alice, 120, []string{"int-2", "int-5"})
	require.NoError(t, err)

	p, err := u.Get(ctx, alice)
	require.NoError(t, err)

	require.Len(t, p.StudySessions, 1)
	assert.Equal(t, 420, p.StudySessions[0].DurationSeconds)
	assert.Equal(t, []string{"int-1", "int-2", "int-5"}, p.StudySessions[0].GrammarStudiedIDs)
	assert.Equal(t, 420, p.TotalStudyTimeSeconds)
	assert.Equal(t, 420, p.WeeklyGoal.Current)
}

func TestProgressDayBoundaryFollowsUserTimezone(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock() // 09:00 UTC, 18:00 in Seoul
	u := newProgressUsecase(t, db, clock)
	ctx := context.Background()
	seoul := entity.UserContext{UserID: "alice", Timezone: "Asia/Seoul"}

	_, err := u.RecordStudyTime(ctx, seoul, 60, nil)
	require.NoError(t, err)
	clock.Advance(6 * time.Hour) // past midnight in Seoul, same UTC day
	p, err := u.RecordStudyTime(ctx, seoul, 60, nil)
	require.NoError(t, err)

	require.Len(t, p.StudySessions, 2)
	assert.Equal(t, "2024-03-04", p.StudySessions[0].DayKey)
	assert.Equal(t, "2024-03-05", p.StudySessions[1].DayKey)
	assert.Equal(t, "Asia/Seoul", p.Timezone)
}

func TestProgressSaveAndUnsaveGrammar(t *testing.T) {
	db := newTestDB(t)
	u := newProgressUsecase(t, db, newFakeClock())
	ctx := context.Background()

	_, err := u.SaveGrammar(ctx, alice, "int-1")
	require.NoError(t, err)
	p, err := u.SaveGrammar(ctx, alice, "int-1")
	require.NoError(t, err)
	assert.Len(t, p.SavedGrammar, 1)

	p, err = u.SetMastered(ctx, alice, "int-1", true)
	require.NoError(t, err)
	require.Len(t, p.SavedGrammar, 1)
	assert.True(t, p.SavedGrammar[0].Mastered)

	p, err = u.UnsaveGrammar(ctx, alice, "int-404")
	require.NoError(t, err)
	assert.Len(t, p.SavedGrammar, 1)

	_, err = u.UnsaveGrammar(ctx, alice, "int-1")
	require.NoError(t, err)
	p, err = u.Get(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, p.SavedGrammar)

	var rows int64
	require.NoError(t, db.Model(&internalEntity.SavedGrammar{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestProgressConcurrentWritesAreSerialized(t *testing.T) {
	db := newTestDB(t)
	u := newProgressUsecase(t, db, newFakeClock())
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers*2)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := u.RecordQuizResult(ctx, alice, entity.QuizResult{
				GrammarID:        "int-1",
				QuizType:         entity.QuizTypeFillBlank,
				IsCorrect:        true,
				TimeSpentSeconds: 6,
			})
			errs <- err
		}(i)
		go func() {
			defer wg.Done()
			_, err := u.RecordStudyTime(ctx, entity.UserContext{UserID: "bob"}, 10, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := u.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, writers, p.QuizStats.Total)
	assert.Equal(t, writers, p.QuizStats.Correct)
	assert.Equal(t, writers, p.QuizStats.BestStreak)
	assert.Equal(t, 6.0, p.QuizStats.AverageTimeSeconds)
	require.Len(t, p.StudySessions, 1)
	assert.Len(t, p.StudySessions[0].QuizResults, writers)

	bob, err := u.Get(ctx, entity.UserContext{UserID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, writers*10, bob.TotalStudyTimeSeconds)
}

func TestProgressStats(t *testing.T) {
	db := newTestDB(t)
	u := newProgressUsecase(t, db, newFakeClock())
	ctx := context.Background()

	_, err := u.RecordStudyTime(ctx, alice, 300, nil)
	require.NoError(t, err)
	_, err = u.RecordQuizResult(ctx, alice, entity.QuizResult{GrammarID: "int-1", QuizType: entity.QuizTypeTranslation, IsCorrect: true, TimeSpentSeconds: 4})
	require.NoError(t, err)

	stats, err := u.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stats.Accuracy)
	assert.Equal(t, 50.0, stats.WeeklyGoalPercent)
	assert.Equal(t, 1, stats.StudyDayStreak)
	require.NotNil(t, stats.Today)
	assert.Len(t, stats.Today.QuizResults, 1)
}

func TestProgressRollWeeklyGoals(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	u := newProgressUsecase(t, db, clock)
	ctx := context.Background()

	_, err := u.RecordStudyTime(ctx, alice, 300, nil)
	require.NoError(t, err)

	rolled, err := u.RollWeeklyGoals(ctx)
	require.NoError(t, err)
	assert.Zero(t, rolled)

	clock.Advance(7 * 24 * time.Hour)
	rolled, err = u.RollWeeklyGoals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rolled)

	p, err := u.Get(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, p.WeeklyGoal.Current)
	assert.Equal(t, 300, p.TotalStudyTimeSeconds)
	assert.Equal(t, "2024-03-11", p.WeeklyGoal.WeekStart.UTC().Format("2006-01-02"))
}

type failingProgressRepository struct {
	repository.UserProgressRepository
}

func (failingProgressRepository) FindByUserIDForUpdate(*gorm.DB, string) (*internalEntity.UserProgress, error) {
	return nil, errors.New("connection reset")
}

func TestProgressWriteFailureIsRetryable(t *testing.T) {
	db := newTestDB(t)
	u := NewProgressUsecase(ProgressConfig{
		DB:         db,
		Repository: failingProgressRepository{repository.NewUserProgressRepository(db)},
		Log:        newTestLogger(),
	})

	_, err := u.RecordQuizResult(context.Background(), alice, entity.QuizResult{GrammarID: "int-1", QuizType: entity.QuizTypeTranslation})
	assert.ErrorIs(t, err, ErrProgressUnavailable)
}
