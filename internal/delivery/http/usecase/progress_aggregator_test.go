package usecase

import (
	"testing"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

// Monday 2024-03-04 10:00 UTC
var monday = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func result(correct bool, seconds float64) entity.QuizResult {
	return entity.QuizResult{
		GrammarID:        "int-1",
		QuizType:         entity.QuizTypeTranslation,
		IsCorrect:        correct,
		TimeSpentSeconds: seconds,
		Attempts:         1,
	}
}

func TestCurrentDayKey(t *testing.T) {
	// 2024-03-04 20:00 UTC is already the 5th in Seoul
	now := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)

	key, midnight := CurrentDayKey(now, time.UTC)
	assert.Equal(t, "2024-03-04", key)
	assert.True(t, midnight.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))

	key, midnight = CurrentDayKey(now, kst)
	assert.Equal(t, "2024-03-05", key)
	assert.True(t, midnight.Equal(time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)))

	key, _ = CurrentDayKey(now, nil)
	assert.Equal(t, "2024-03-04", key)
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.True(t, WeekStart(sunday, time.UTC).Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.True(t, WeekStart(monday, time.UTC).Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))

	// Sunday 23:00 UTC is Monday morning in Seoul
	assert.Equal(t, "2024-03-11", WeekStart(sunday, kst).Format(dayKeyLayout))
}

func TestApplyQuizResultStreaks(t *testing.T) {
	tests := []struct {
		name               string
		pattern            []bool
		total, correct     int
		streak, bestStreak int
	}{
		{"single miss", []bool{true, true, false, true, true, true}, 6, 5, 3, 3},
		{"double miss", []bool{true, true, true, false, false, true, true, true, true}, 9, 7, 4, 4},
		{"five one two", []bool{true, true, true, true, true, false, true, true}, 8, 7, 2, 5},
		{"all wrong", []bool{false, false}, 2, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewUserProgress("user-1", 300, monday, time.UTC)
			for _, correct := range tt.pattern {
				ApplyQuizResult(p, result(correct, 5), monday, time.UTC)
			}

			assert.Equal(t, tt.total, p.QuizStats.Total)
			assert.Equal(t, tt.correct, p.QuizStats.Correct)
			assert.Equal(t, tt.streak, p.QuizStats.Streak)
			assert.Equal(t, tt.bestStreak, p.QuizStats.BestStreak)
		})
	}
}

func TestApplyQuizResultAverageTime(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)
	for _, seconds := range []float64{10, 20, 30} {
		ApplyQuizResult(p, result(true, seconds), monday, time.UTC)
	}
	assert.Equal(t, 20.0, p.QuizStats.AverageTimeSeconds)
}

func TestApplyQuizResultDayBuckets(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, kst)

	idx := ApplyQuizResult(p, result(true, 5), monday, kst)
	assert.Equal(t, 0, idx)
	// 20:00 UTC Monday is Tuesday in Seoul
	idx = ApplyQuizResult(p, result(false, 5), monday.Add(10*time.Hour), kst)
	assert.Equal(t, 1, idx)
	idx = ApplyQuizResult(p, result(true, 5), monday.Add(11*time.Hour), kst)
	assert.Equal(t, 1, idx)

	require.Len(t, p.StudySessions, 2)
	assert.Equal(t, "2024-03-04", p.StudySessions[0].DayKey)
	assert.Equal(t, "2024-03-05", p.StudySessions[1].DayKey)
	assert.Len(t, p.StudySessions[0].QuizResults, 1)
	assert.Len(t, p.StudySessions[1].QuizResults, 2)
}

func TestApplyQuizResultNormalizesInput(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)
	ApplyQuizResult(p, entity.QuizResult{GrammarID: "int-1", QuizType: entity.QuizTypeFillBlank, TimeSpentSeconds: -4}, monday, time.UTC)

	stored := p.StudySessions[0].QuizResults[0]
	assert.Equal(t, 0.0, stored.TimeSpentSeconds)
	assert.Equal(t, 1, stored.Attempts)
	assert.Equal(t, 0.0, p.QuizStats.AverageTimeSeconds)
}

func TestApplyStudyTimeMergesSameDay(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)

	ApplyStudyTime(p, 120, []string{"int-1", "int-2"}, monday, time.UTC)
	ApplyStudyTime(p, 60, []string{"int-2", "int-3", ""}, monday.Add(2*time.Hour), time.UTC)

	require.Len(t, p.StudySessions, 1)
	session := p.StudySessions[0]
	assert.Equal(t, 180, session.DurationSeconds)
	assert.Equal(t, []string{"int-1", "int-2", "int-3"}, session.GrammarStudiedIDs)
	assert.Equal(t, 180, p.TotalStudyTimeSeconds)
	assert.Equal(t, 180, p.WeeklyGoal.Current)
}

func TestApplyStudyTimeRollsWeek(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)
	ApplyStudyTime(p, 200, nil, monday, time.UTC)

	nextWeek := monday.AddDate(0, 0, 7)
	ApplyStudyTime(p, 50, nil, nextWeek, time.UTC)

	assert.Equal(t, 50, p.WeeklyGoal.Current)
	assert.Equal(t, 250, p.TotalStudyTimeSeconds)
	assert.True(t, p.WeeklyGoal.WeekStart.Equal(WeekStart(nextWeek, time.UTC)))
	assert.Len(t, p.StudySessions, 2)
}

func TestRollWeeklyGoal(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)
	p.WeeklyGoal.Current = 120

	assert.False(t, RollWeeklyGoal(p, monday.AddDate(0, 0, 6), time.UTC))
	assert.Equal(t, 120, p.WeeklyGoal.Current)

	assert.True(t, RollWeeklyGoal(p, monday.AddDate(0, 0, 7), time.UTC))
	assert.Equal(t, 0, p.WeeklyGoal.Current)
	assert.Equal(t, 300, p.WeeklyGoal.Target)
}

func TestApplySaveGrammarIsIdempotent(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)

	assert.True(t, ApplySaveGrammar(p, "int-1", monday))
	assert.False(t, ApplySaveGrammar(p, "int-1", monday.Add(time.Hour)))

	require.Len(t, p.SavedGrammar, 1)
	assert.True(t, p.SavedGrammar[0].SavedAt.Equal(monday), "first save wins")
}

func TestApplyUnsaveGrammar(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)
	ApplySaveGrammar(p, "int-1", monday)
	ApplySaveGrammar(p, "int-2", monday)

	assert.False(t, ApplyUnsaveGrammar(p, "int-9", monday))
	assert.True(t, ApplyUnsaveGrammar(p, "int-1", monday))

	require.Len(t, p.SavedGrammar, 1)
	assert.Equal(t, "int-2", p.SavedGrammar[0].GrammarID)
}

func TestApplyMastered(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)

	ApplyMastered(p, "int-1", true, monday)
	require.Len(t, p.SavedGrammar, 1)
	assert.True(t, p.SavedGrammar[0].Mastered)
	require.NotNil(t, p.SavedGrammar[0].MasteredAt)

	ApplyMastered(p, "int-1", false, monday)
	assert.False(t, p.SavedGrammar[0].Mastered)
	assert.Nil(t, p.SavedGrammar[0].MasteredAt)
}

func TestLevelPromotion(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)
	for i := 0; i < 50; i++ {
		ApplyQuizResult(p, result(i%4 != 0, 3), monday, time.UTC)
	}
	assert.Equal(t, entity.LevelIntermediate, p.CurrentLevel)

	for i := 0; i < 100; i++ {
		ApplyQuizResult(p, result(false, 3), monday, time.UTC)
	}
	assert.Equal(t, entity.LevelIntermediate, p.CurrentLevel, "levels never drop")
}

func TestAchievementsUnlockOnce(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday, time.UTC)
	for i := 0; i < 6; i++ {
		ApplyQuizResult(p, result(true, 3), monday, time.UTC)
	}

	ids := make([]string, 0, len(p.Achievements))
	for _, a := range p.Achievements {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"first-quiz", "streak-5"}, ids)
}

func TestComputeStats(t *testing.T) {
	p := NewUserProgress("user-1", 300, monday.AddDate(0, 0, -2), time.UTC)
	ApplyStudyTime(p, 100, []string{"int-1"}, monday.AddDate(0, 0, -2), time.UTC)
	ApplyStudyTime(p, 100, nil, monday.AddDate(0, 0, -1), time.UTC)
	ApplyQuizResult(p, result(true, 10), monday, time.UTC)
	ApplyQuizResult(p, result(false, 20), monday, time.UTC)
	ApplyMastered(p, "int-1", true, monday)
	ApplySaveGrammar(p, "int-2", monday)

	stats := ComputeStats(p, monday, time.UTC)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 50.0, stats.Accuracy)
	assert.Equal(t, 15.0, stats.AverageTimeSeconds)
	assert.Equal(t, 3, stats.StudyDayStreak)
	assert.Equal(t, 2, stats.SavedCount)
	assert.Equal(t, 1, stats.MasteredCount)
	require.NotNil(t, stats.Today)
	assert.Len(t, stats.Today.QuizResults, 2)

	// the weekend's study time belonged to last week
	assert.Equal(t, 0, stats.WeeklyGoal.Current)
}

func TestComputeStatsStaleWeekAndStreakGrace(t *testing.T) {
	p := NewUserProgress("user-1", 100, monday, time.UTC)
	ApplyStudyTime(p, 250, nil, monday, time.UTC)

	stats := ComputeStats(p, monday, time.UTC)
	assert.Equal(t, 100.0, stats.WeeklyGoalPercent)
	assert.Equal(t, 1, stats.StudyDayStreak)

	tuesday := monday.AddDate(0, 0, 1)
	stats = ComputeStats(p, tuesday, time.UTC)
	assert.Equal(t, 1, stats.StudyDayStreak, "yesterday still counts until today ends")
	assert.Nil(t, stats.Today)

	stats = ComputeStats(p, monday.AddDate(0, 0, 8), time.UTC)
	assert.Equal(t, 0, stats.WeeklyGoal.Current)
	assert.Equal(t, 0.0, stats.WeeklyGoalPercent)
	assert.Equal(t, 0, stats.StudyDayStreak)
}
