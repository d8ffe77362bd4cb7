package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRecord 每个 (用户, 主题, 概念) 仅一条
type ProgressRecord struct {
	ID                string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID            string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_progress_key,priority:1" json:"userId"`
	TopicID           string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_progress_key,priority:2;index" json:"topicId"`
	ConceptID         string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_progress_key,priority:3" json:"conceptId"`
	CurrentDifficulty Difficulty `gorm:"not null;default:1" json:"currentDifficulty"`
	Streak            int        `gorm:"not null;default:0" json:"streak"`
	Attempts          int        `gorm:"not null;default:0" json:"attempts"`
	MediumPassed      bool       `gorm:"not null;default:false" json:"mediumPassed"`
	ExpertPassed      bool       `gorm:"not null;default:false" json:"expertPassed"`
	ProfessorPassed   bool       `gorm:"not null;default:false" json:"professorPassed"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

func (r *ProgressRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// Passed 是否已通过指定档位
func (r ProgressRecord) Passed(d Difficulty) bool {
	switch d {
	case DifficultyMedium:
		return r.MediumPassed
	case DifficultyExpert:
		return r.ExpertPassed
	case DifficultyProfessor:
		return r.ProfessorPassed
	}
	return false
}

// MarkPassed 只会置 true，不会清除
func (r *ProgressRecord) MarkPassed(d Difficulty) {
	switch d {
	case DifficultyMedium:
		r.MediumPassed = true
	case DifficultyExpert:
		r.ExpertPassed = true
	case DifficultyProfessor:
		r.ProfessorPassed = true
	}
}
