package model

import (
	"time"

	"gorm.io/datatypes"
)

// StudyEvent 前端上报的学习事件，只追加
type StudyEvent struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	Timestamp      time.Time      `gorm:"index;not null" json:"timestamp"`
	Event          string         `gorm:"size:100;not null" json:"event"`
	Totals         datatypes.JSON `json:"totals"`
	BucketSnapshot datatypes.JSON `json:"bucketSnapshot"`
}

func (StudyEvent) TableName() string {
	return "study_events"
}
