package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Grammar - one grammar point of the catalog
type Grammar struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	GrammarID   string         `gorm:"uniqueIndex;size:50;not null" json:"grammar_id"` // e.g. "int-1"
	Korean      string         `gorm:"size:200;not null" json:"korean"`                // V게 되다
	English     string         `gorm:"size:255;not null" json:"english"`
	Vietnamese  string         `gorm:"size:255" json:"vietnamese"`
	Structure   string         `gorm:"size:255;not null" json:"structure"`
	Usage       string         `gorm:"type:text;not null" json:"usage"`
	Explanation string         `gorm:"type:text" json:"explanation"`
	Examples    datatypes.JSON `gorm:"not null" json:"examples"` // JSON array of {korean, english, vietnamese, romanization}
	Level       string         `gorm:"size:20;not null;index" json:"level"`
	TopikLevel  int            `gorm:"not null" json:"topik_level"`
	Category    string         `gorm:"size:30" json:"category"`
	Difficulty  int            `gorm:"not null" json:"difficulty"`
	Tags        datatypes.JSON `gorm:"not null" json:"tags"` // JSON array of strings
	IsActive    bool           `gorm:"not null;index" json:"is_active"`
	UsageCount  int            `gorm:"not null;default:0" json:"usage_count"` // questions generated from this record
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Grammar) TableName() string {
	return "grammars"
}
