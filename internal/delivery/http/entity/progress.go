package entity

import "time"

type QuizStats struct {
	Total              int     `json:"total"`
	Correct            int     `json:"correct"`
	Streak             int     `json:"streak"`
	BestStreak         int     `json:"bestStreak"`
	AverageTimeSeconds float64 `json:"averageTime"`
}

// StudySession is the per-calendar-day bucket. DayKey is the local date (YYYY-MM-DD) it belongs to.
type StudySession struct {
	DayKey            string       `json:"dayKey"`
	Date              time.Time    `json:"date"`
	DurationSeconds   int          `json:"duration"`
	GrammarStudiedIDs []string     `json:"grammarStudied"`
	QuizResults       []QuizResult `json:"quizResults"`
}

func (s *StudySession) HasStudied(grammarID string) bool {
	for _, id := range s.GrammarStudiedIDs {
		if id == grammarID {
			return true
		}
	}
	return false
}

type SavedGrammar struct {
	GrammarID  string     `json:"grammarId"`
	SavedAt    time.Time  `json:"savedAt"`
	Mastered   bool       `json:"mastered"`
	MasteredAt *time.Time `json:"masteredAt,omitempty"`
}

type WeeklyGoal struct {
	Target    int       `json:"target"`
	Current   int       `json:"current"`
	WeekStart time.Time `json:"weekStart"`
}

type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

type UserProgress struct {
	UserID                string         `json:"userId"`
	QuizStats             QuizStats      `json:"quizStats"`
	StudySessions         []StudySession `json:"studySessions"`
	SavedGrammar          []SavedGrammar `json:"savedGrammar"`
	TotalStudyTimeSeconds int            `json:"totalStudyTime"`
	WeeklyGoal            WeeklyGoal     `json:"weeklyGoal"`
	CurrentLevel          GrammarLevel   `json:"currentLevel"`
	Achievements          []Achievement  `json:"achievements"`
	Timezone              string         `json:"timezone"`
	LastActiveAt          time.Time      `json:"lastActiveAt"`
}

type ProgressStats struct {
	Total              int           `json:"total"`
	Correct            int           `json:"correct"`
	Accuracy           float64       `json:"accuracy"`
	AverageTimeSeconds float64       `json:"averageTime"`
	Streak             int           `json:"streak"`
	BestStreak         int           `json:"bestStreak"`
	StudyDayStreak     int           `json:"studyDayStreak"`
	TotalStudyTime     int           `json:"totalStudyTime"`
	Today              *StudySession `json:"today,omitempty"`
	WeeklyGoal         WeeklyGoal    `json:"weeklyGoal"`
	WeeklyGoalPercent  float64       `json:"weeklyGoalPercent"`
	SavedCount         int           `json:"savedCount"`
	MasteredCount      int           `json:"masteredCount"`
}

// UserContext is what the auth layer in front of us resolved for the request.
type UserContext struct {
	UserID   string
	Timezone string
}

type SaveGrammarRequest struct {
	GrammarID string `json:"grammar_id" validate:"required"`
}

type MasteredRequest struct {
	Mastered bool `json:"mastered"`
}

type QuizResultRequest struct {
	GrammarID string   `json:"grammar_id" validate:"required"`
	QuizType  QuizType `json:"quiz_type" validate:"required"`
	IsCorrect bool     `json:"is_correct"`
	TimeSpent float64  `json:"time_spent" validate:"gte=0"`
	Attempts  int      `json:"attempts" validate:"gte=0"`
}

type StudyTimeRequest struct {
	Duration   int      `json:"duration" validate:"gte=0"`
	GrammarIDs []string `json:"grammar_ids"`
}

type WeeklyGoalRequest struct {
	Target int `json:"target" validate:"required,gt=0"`
}
