package model

import (
	"time"

	"gorm.io/datatypes"
)

const UnlockPolicySequential = "sequential"

// BaseQuestion 一道原始题目：题干、正确答案、干扰项
type BaseQuestion struct {
	PromptText       string   `json:"questionText"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
}

type Choice struct {
	Text           string `json:"text"`
	IsCorrect      bool   `json:"isCorrect"`
	DistractorRole string `json:"distractorRole"`
}

// Variant 某个难度下呈现给学生的题目
type Variant struct {
	Difficulty Difficulty   `json:"difficulty"`
	Prompt     string       `json:"prompt"`
	Choices    []Choice     `json:"choices"`
	Base       BaseQuestion `json:"baseQuestion"`
}

// CorrectIndex 返回正确选项的位置，没有时返回 -1
func (v Variant) CorrectIndex() int {
	for i, c := range v.Choices {
		if c.IsCorrect {
			return i
		}
	}
	return -1
}

type Concept struct {
	ConceptID     string                   `json:"conceptId"`
	Title         string                   `json:"title"`
	Order         int                      `json:"order"`
	BaseQuestions []BaseQuestion           `json:"baseQuestions"`
	Modes         map[Difficulty][]Variant `json:"modes"`
}

type LearningRules struct {
	TierOrder          []Difficulty       `json:"tierOrder"`
	StreakRequirements map[Difficulty]int `json:"streakRequirements"`
	UnlockPolicy       string             `json:"unlockPolicy"`
}

// swagger:model LearningPath
type LearningPath struct {
	TopicID     string                            `gorm:"primaryKey;type:varchar(128)" json:"topicId"`
	TopicName   string                            `gorm:"size:255" json:"topicName"`
	Description string                            `gorm:"type:text" json:"description"`
	Concepts    datatypes.JSONSlice[Concept]      `json:"concepts"`
	Rules       datatypes.JSONType[LearningRules] `json:"rules"`
	CreatedAt   time.Time                         `json:"createdAt"`
	UpdatedAt   time.Time                         `json:"updatedAt"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// LearningPathSummary 列表展示用
type LearningPathSummary struct {
	TopicID      string    `json:"topicId"`
	TopicName    string    `json:"topicName"`
	Description  string    `json:"description"`
	ConceptCount int       `json:"conceptCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
