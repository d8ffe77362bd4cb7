package repository

import (
	"context"

	"quizpath_backend/internal/model"

	"gorm.io/gorm"
)

// StudyEventRetention 存储中保留的事件条数
const StudyEventRetention = 500

type StudyEventRepository struct {
	DB *gorm.DB
}

func NewStudyEventRepository(db *gorm.DB) *StudyEventRepository {
	return &StudyEventRepository{DB: db}
}

// Append 追加事件后裁剪到最近 StudyEventRetention 条
func (r *StudyEventRepository) Append(ctx context.Context, event *model.StudyEvent) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		var ids []uint
		err := tx.Model(&model.StudyEvent{}).
			Order("id desc").
			Offset(StudyEventRetention).
			Limit(1).
			Pluck("id", &ids).Error
		if err != nil || len(ids) == 0 {
			return err
		}
		return tx.Where("id <= ?", ids[0]).Delete(&model.StudyEvent{}).Error
	})
}

// Recent 返回最近 limit 条，按时间正序
func (r *StudyEventRepository) Recent(ctx context.Context, limit int) ([]model.StudyEvent, error) {
	var events []model.StudyEvent
	err := r.DB.WithContext(ctx).Order("id desc").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
