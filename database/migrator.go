package database

import (
	"github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Grammar{},
		&entity.UserProgress{},
		&entity.StudySession{},
		&entity.QuizResult{},
		&entity.SavedGrammar{},
	)
}
