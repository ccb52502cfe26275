package entity

import (
	"time"

	"gorm.io/datatypes"
)

// UserProgress - root progress aggregate, one row per user
type UserProgress struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	UserID              string         `gorm:"uniqueIndex;size:100;not null" json:"user_id"`
	QuizTotal           int            `gorm:"not null" json:"quiz_total"`
	QuizCorrect         int            `gorm:"not null" json:"quiz_correct"`
	QuizStreak          int            `gorm:"not null" json:"quiz_streak"`
	QuizBestStreak      int            `gorm:"not null" json:"quiz_best_streak"`
	QuizAverageTime     float64        `gorm:"not null" json:"quiz_average_time"` // seconds
	TotalStudyTime      int            `gorm:"not null" json:"total_study_time"`  // seconds
	WeeklyGoalTarget    int            `gorm:"not null" json:"weekly_goal_target"`
	WeeklyGoalCurrent   int            `gorm:"not null" json:"weekly_goal_current"`
	WeeklyGoalWeekStart time.Time      `gorm:"not null;index" json:"weekly_goal_week_start"`
	CurrentLevel        string         `gorm:"size:20" json:"current_level"`
	Timezone            string         `gorm:"size:64" json:"timezone"`
	Achievements        datatypes.JSON `gorm:"not null" json:"achievements"` // JSON array of unlocked achievements
	LastActiveAt        time.Time      `gorm:"index" json:"last_active_at"`
	StudySessions       []StudySession `gorm:"foreignKey:UserProgressID" json:"study_sessions,omitempty"`
	SavedGrammar        []SavedGrammar `gorm:"foreignKey:UserProgressID" json:"saved_grammar,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// StudySession - per-day bucket, unique per (user, local date)
type StudySession struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserProgressID uint           `gorm:"not null;uniqueIndex:idx_study_sessions_progress_day,priority:1" json:"user_progress_id"`
	DayKey         string         `gorm:"size:10;not null;uniqueIndex:idx_study_sessions_progress_day,priority:2" json:"day_key"` // 2006-01-02
	Date           time.Time      `gorm:"not null" json:"date"`                                                                  // local midnight
	Duration       int            `gorm:"not null" json:"duration"`                                                              // seconds
	GrammarStudied datatypes.JSON `gorm:"not null" json:"grammar_studied"`                                                       // JSON array of grammar ids
	QuizResults    []QuizResult   `gorm:"foreignKey:StudySessionID" json:"quiz_results,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// QuizResult - one answered (or timed out) question
type QuizResult struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserProgressID uint      `gorm:"not null;index" json:"user_progress_id"`
	StudySessionID uint      `gorm:"not null;index" json:"study_session_id"`
	Position       int       `gorm:"not null" json:"position"` // order inside the study session
	GrammarID      string    `gorm:"size:100;not null;index" json:"grammar_id"`
	QuizType       string    `gorm:"size:30;not null" json:"quiz_type"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	TimeSpent      float64   `gorm:"not null" json:"time_spent"` // seconds
	Attempts       int       `gorm:"not null" json:"attempts"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// SavedGrammar - bookmarked grammar point, unique per (user, grammar)
type SavedGrammar struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	UserProgressID uint       `gorm:"not null;uniqueIndex:idx_saved_grammar_progress_grammar,priority:1" json:"user_progress_id"`
	GrammarID      string     `gorm:"size:100;not null;uniqueIndex:idx_saved_grammar_progress_grammar,priority:2" json:"grammar_id"`
	SavedAt        time.Time  `gorm:"not null" json:"saved_at"`
	Mastered       bool       `gorm:"not null" json:"mastered"`
	MasteredAt     *time.Time `json:"mastered_at"`
}

func (SavedGrammar) TableName() string {
	return "saved_grammar"
}
