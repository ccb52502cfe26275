package repository

import (
	"github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	GrammarRepository interface {
		FindByGrammarID(db *gorm.DB, grammarID string) (*entity.Grammar, error)
		FindByGrammarIDs(db *gorm.DB, grammarIDs []string) ([]entity.Grammar, error)
		FindRandomByLevel(db *gorm.DB, level string, limit int) ([]entity.Grammar, error)
		Count(db *gorm.DB) (int64, error)
		IncrementUsageCount(db *gorm.DB, grammarIDs []string) error
		Create(db *gorm.DB, grammar *entity.Grammar) error
		// Upsert inserts or replaces the row with the same grammar_id.
		Upsert(db *gorm.DB, grammar *entity.Grammar) error
	}

	grammarRepository struct {
		db *gorm.DB
	}
)

func NewGrammarRepository(db *gorm.DB) GrammarRepository {
	return &grammarRepository{db: db}
}

func (r *grammarRepository) FindByGrammarID(db *gorm.DB, grammarID string) (*entity.Grammar, error) {
	if db == nil {
		db = r.db
	}
	var grammar entity.Grammar
	err := db.Where("grammar_id = ? AND is_active = ?", grammarID, true).First(&grammar).Error
	if err != nil {
		return nil, err
	}
	return &grammar, nil
}

func (r *grammarRepository) FindByGrammarIDs(db *gorm.DB, grammarIDs []string) ([]entity.Grammar, error) {
	if db == nil {
		db = r.db
	}
	var grammars []entity.Grammar
	if len(grammarIDs) == 0 {
		return grammars, nil
	}
	err := db.Where("grammar_id IN ? AND is_active = ?", grammarIDs, true).Find(&grammars).Error
	return grammars, err
}

func (r *grammarRepository) FindRandomByLevel(db *gorm.DB, level string, limit int) ([]entity.Grammar, error) {
	if db == nil {
		db = r.db
	}
	var grammars []entity.Grammar
	query := db.Where("level = ? AND is_active = ?", level, true).Order("RANDOM()")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&grammars).Error
	return grammars, err
}

func (r *grammarRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&entity.Grammar{}).Count(&count).Error
	return count, err
}

func (r *grammarRepository) IncrementUsageCount(db *gorm.DB, grammarIDs []string) error {
	if db == nil {
		db = r.db
	}
	if len(grammarIDs) == 0 {
		return nil
	}
	return db.Model(&entity.Grammar{}).
		Where("grammar_id IN ?", grammarIDs).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
}

func (r *grammarRepository) Create(db *gorm.DB, grammar *entity.Grammar) error {
	if db == nil {
		db = r.db
	}
	return db.Create(grammar).Error
}

func (r *grammarRepository) Upsert(db *gorm.DB, grammar *entity.Grammar) error {
	if db == nil {
		db = r.db
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "grammar_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"korean", "english", "vietnamese", "structure", "usage", "explanation",
			"examples", "level", "topik_level", "category", "difficulty", "tags",
			"is_active", "updated_at", "deleted_at",
		}),
	}).Create(grammar).Error
}
