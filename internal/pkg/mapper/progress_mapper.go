package mapper

import (
	"bytes"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	dbEntity "github.com/evandrarf/hangeul-quiz-be/internal/entity"
)

// ConvertToUserProgress builds the aggregate from a row whose StudySessions and SavedGrammar are loaded.
func ConvertToUserProgress(row *dbEntity.UserProgress) (*entity.UserProgress, error) {
	p := &entity.UserProgress{
		UserID: row.UserID,
		QuizStats: entity.QuizStats{
			Total:              row.QuizTotal,
			Correct:            row.QuizCorrect,
			Streak:             row.QuizStreak,
			BestStreak:         row.QuizBestStreak,
			AverageTimeSeconds: row.QuizAverageTime,
		},
		StudySessions:         make([]entity.StudySession, 0, len(row.StudySessions)),
		SavedGrammar:          make([]entity.SavedGrammar, 0, len(row.SavedGrammar)),
		TotalStudyTimeSeconds: row.TotalStudyTime,
		WeeklyGoal: entity.WeeklyGoal{
			Target:    row.WeeklyGoalTarget,
			Current:   row.WeeklyGoalCurrent,
			WeekStart: row.WeeklyGoalWeekStart,
		},
		CurrentLevel: entity.GrammarLevel(row.CurrentLevel),
		Timezone:     row.Timezone,
		LastActiveAt: row.LastActiveAt,
		Achievements: []entity.Achievement{},
	}
	if err := unmarshalJSON(row.Achievements, &p.Achievements); err != nil {
		return nil, err
	}
	if p.Achievements == nil {
		p.Achievements = []entity.Achievement{}
	}

	for i := range row.StudySessions {
		s, err := ConvertToStudySession(&row.StudySessions[i])
		if err != nil {
			return nil, err
		}
		p.StudySessions = append(p.StudySessions, s)
	}

	for _, s := range row.SavedGrammar {
		p.SavedGrammar = append(p.SavedGrammar, entity.SavedGrammar{
			GrammarID:  s.GrammarID,
			SavedAt:    s.SavedAt,
			Mastered:   s.Mastered,
			MasteredAt: s.MasteredAt,
		})
	}
	return p, nil
}

func ConvertToStudySession(row *dbEntity.StudySession) (entity.StudySession, error) {
	s := entity.StudySession{
		DayKey:            row.DayKey,
		Date:              row.Date,
		DurationSeconds:   row.Duration,
		GrammarStudiedIDs: []string{},
		QuizResults:       make([]entity.QuizResult, 0, len(row.QuizResults)),
	}
	if err := unmarshalJSON(row.GrammarStudied, &s.GrammarStudiedIDs); err != nil {
		return entity.StudySession{}, err
	}
	if s.GrammarStudiedIDs == nil {
		s.GrammarStudiedIDs = []string{}
	}
	for _, r := range row.QuizResults {
		s.QuizResults = append(s.QuizResults, entity.QuizResult{
			GrammarID:        r.GrammarID,
			QuizType:         entity.QuizType(r.QuizType),
			IsCorrect:        r.IsCorrect,
			TimeSpentSeconds: r.TimeSpent,
			Attempts:         r.Attempts,
		})
	}
	return s, nil
}

// FillUserProgressRow copies the scalar state of p onto row. Child collections are left alone.
func FillUserProgressRow(row *dbEntity.UserProgress, p *entity.UserProgress) error {
	achievements, err := marshalJSON(p.Achievements)
	if err != nil {
		return err
	}

	row.UserID = p.UserID
	row.QuizTotal = p.QuizStats.Total
	row.QuizCorrect = p.QuizStats.Correct
	row.QuizStreak = p.QuizStats.Streak
	row.QuizBestStreak = p.QuizStats.BestStreak
	row.QuizAverageTime = p.QuizStats.AverageTimeSeconds
	row.TotalStudyTime = p.TotalStudyTimeSeconds
	row.WeeklyGoalTarget = p.WeeklyGoal.Target
	row.WeeklyGoalCurrent = p.WeeklyGoal.Current
	row.WeeklyGoalWeekStart = p.WeeklyGoal.WeekStart.UTC()
	row.CurrentLevel = string(p.CurrentLevel)
	row.Timezone = p.Timezone
	row.Achievements = achievements
	row.LastActiveAt = p.LastActiveAt.UTC()
	return nil
}

// FillStudySessionRow copies s onto row and reports whether any persisted column changed.
func FillStudySessionRow(row *dbEntity.StudySession, s entity.StudySession) (bool, error) {
	ids := s.GrammarStudiedIDs
	if ids == nil {
		ids = []string{}
	}
	studied, err := marshalJSON(ids)
	if err != nil {
		return false, err
	}

	changed := row.ID == 0 ||
		row.DayKey != s.DayKey ||
		!row.Date.Equal(s.Date) ||
		row.Duration != s.DurationSeconds ||
		!bytes.Equal(row.GrammarStudied, studied)

	row.DayKey = s.DayKey
	row.Date = s.Date.UTC()
	row.Duration = s.DurationSeconds
	row.GrammarStudied = studied
	return changed, nil
}

func ConvertToQuizResultEntity(progressID, sessionID uint, position int, r entity.QuizResult) *dbEntity.QuizResult {
	return &dbEntity.QuizResult{
		UserProgressID: progressID,
		StudySessionID: sessionID,
		Position:       position,
		GrammarID:      r.GrammarID,
		QuizType:       string(r.QuizType),
		IsCorrect:      r.IsCorrect,
		TimeSpent:      r.TimeSpentSeconds,
		Attempts:       r.Attempts,
	}
}

func ConvertToSavedGrammarEntity(progressID uint, s entity.SavedGrammar) *dbEntity.SavedGrammar {
	return &dbEntity.SavedGrammar{
		UserProgressID: progressID,
		GrammarID:      s.GrammarID,
		SavedAt:        s.SavedAt,
		Mastered:       s.Mastered,
		MasteredAt:     s.MasteredAt,
	}
}
