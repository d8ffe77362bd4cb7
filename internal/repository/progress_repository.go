package repository

import (
	"context"

	"quizpath_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 以 (user_id, topic_id, concept_id) 为键的原位替换集合
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// LoadRecords 按主题、用户过滤，空字符串表示不过滤
func (r *ProgressRepository) LoadRecords(ctx context.Context, topicID, userID string) ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	query := r.DB.WithContext(ctx).Model(&model.ProgressRecord{})
	if topicID != "" {
		query = query.Where("topic_id = ?", topicID)
	}
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Order("topic_id asc, user_id asc, concept_id asc").Find(&records).Error
	return records, err
}

// ReplaceAll 在同一事务内按复合键覆盖写入，已有记录保留原 id 和创建时间。
// records 会被回填 id，调用方拿到的就是落库后的记录。
func (r *ProgressRepository) ReplaceAll(ctx context.Context, records []model.ProgressRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			rec := &records[i]

			var existing model.ProgressRecord
			err := tx.Select("id", "created_at").
				Where("user_id = ? AND topic_id = ? AND concept_id = ?", rec.UserID, rec.TopicID, rec.ConceptID).
				Limit(1).Find(&existing).Error
			if err != nil {
				return err
			}

			if existing.ID != "" {
				rec.ID = existing.ID
				rec.CreatedAt = existing.CreatedAt
				if err := tx.Save(rec).Error; err != nil {
					return err
				}
				continue
			}

			// 并发首写同一个键时后写覆盖
			rec.ID = ""
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic_id"}, {Name: "concept_id"}},
				DoUpdates: clause.AssignmentColumns(progressColumns),
			}).Create(rec).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

var progressColumns = []string{
	"current_difficulty", "streak", "attempts",
	"medium_passed", "expert_passed", "professor_passed", "updated_at",
}
