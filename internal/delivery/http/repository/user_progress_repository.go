package repository

import (
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	UserProgressRepository interface {
		// Aggregate root operations
		FindByUserIDForUpdate(db *gorm.DB, userID string) (*entity.UserProgress, error)
		CreateIfAbsent(db *gorm.DB, progress *entity.UserProgress) error
		Update(db *gorm.DB, progress *entity.UserProgress) error
		FindStaleWeeklyGoalUserIDs(db *gorm.DB, before time.Time, limit int) ([]string, error)

		// Study session operations
		FindStudySessions(db *gorm.DB, progressID uint) ([]entity.StudySession, error)
		SaveStudySession(db *gorm.DB, session *entity.StudySession) error
		CreateQuizResult(db *gorm.DB, result *entity.QuizResult) error

		// Saved grammar operations
		FindSavedGrammar(db *gorm.DB, progressID uint) ([]entity.SavedGrammar, error)
		CreateSavedGrammar(db *gorm.DB, saved *entity.SavedGrammar) error
		UpdateSavedGrammar(db *gorm.DB, saved *entity.SavedGrammar) error
		DeleteSavedGrammar(db *gorm.DB, progressID uint, grammarID string) error
	}

	userProgressRepository struct {
		db *gorm.DB
	}
)

func NewUserProgressRepository(db *gorm.DB) UserProgressRepository {
	return &userProgressRepository{db: db}
}

// FindByUserIDForUpdate locks the user's row until the surrounding transaction ends.
// SQLite ignores the locking clause; there the write lock is taken by the transaction itself.
func (r *userProgressRepository) FindByUserIDForUpdate(db *gorm.DB, userID string) (*entity.UserProgress, error) {
	if db == nil {
		db = r.db
	}
	var progress entity.UserProgress
	query := db
	if db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *userProgressRepository) CreateIfAbsent(db *gorm.DB, progress *entity.UserProgress) error {
	if db == nil {
		db = r.db
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(progress).Error
}

func (r *userProgressRepository) Update(db *gorm.DB, progress *entity.UserProgress) error {
	if db == nil {
		db = r.db
	}
	return db.Omit(clause.Associations).Save(progress).Error
}

func (r *userProgressRepository) FindStaleWeeklyGoalUserIDs(db *gorm.DB, before time.Time, limit int) ([]string, error) {
	if db == nil {
		db = r.db
	}
	var userIDs []string
	query := db.Model(&entity.UserProgress{}).
		Where("weekly_goal_week_start < ?", before).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *userProgressRepository) FindStudySessions(db *gorm.DB, progressID uint) ([]entity.StudySession, error) {
	if db == nil {
		db = r.db
	}
	var sessions []entity.StudySession
	err := db.Where("user_progress_id = ?", progressID).
		Preload("QuizResults", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("date ASC, id ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *userProgressRepository) SaveStudySession(db *gorm.DB, session *entity.StudySession) error {
	if db == nil {
		db = r.db
	}
	return db.Omit(clause.Associations).Save(session).Error
}

func (r *userProgressRepository) CreateQuizResult(db *gorm.DB, result *entity.QuizResult) error {
	if db == nil {
		db = r.db
	}
	return db.Create(result).Error
}

func (r *userProgressRepository) FindSavedGrammar(db *gorm.DB, progressID uint) ([]entity.SavedGrammar, error) {
	if db == nil {
		db = r.db
	}
	var saved []entity.SavedGrammar
	err := db.Where("user_progress_id = ?", progressID).Order("saved_at ASC, id ASC").Find(&saved).Error
	return saved, err
}

func (r *userProgressRepository) CreateSavedGrammar(db *gorm.DB, saved *entity.SavedGrammar) error {
	if db == nil {
		db = r.db
	}
	return db.Create(saved).Error
}

func (r *userProgressRepository) UpdateSavedGrammar(db *gorm.DB, saved *entity.SavedGrammar) error {
	if db == nil {
		db = r.db
	}
	return db.Model(saved).Select("mastered", "mastered_at").Updates(saved).Error
}

func (r *userProgressRepository) DeleteSavedGrammar(db *gorm.DB, progressID uint, grammarID string) error {
	if db == nil {
		db = r.db
	}
	return db.Where("user_progress_id = ? AND grammar_id = ?", progressID, grammarID).
		Delete(&entity.SavedGrammar{}).Error
}
