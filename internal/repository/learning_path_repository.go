package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/model"
	"quizpath_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const learningPathCacheKey = "quizpath:learning_path:%s"

// LearningPathRepository 课程按 topicId 整体覆盖存储，Redis 只缓存原始课程，不缓存学习者视图
type LearningPathRepository struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewLearningPathRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *LearningPathRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LearningPathRepository{DB: db, Redis: rdb, CacheTTL: ttl}
}

// Save 创建或整体覆盖，保留首次创建时间
func (r *LearningPathRepository) Save(ctx context.Context, path *model.LearningPath) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"topic_name", "description", "concepts", "rules", "updated_at"}),
	}).Create(path).Error
	if err != nil {
		return err
	}

	if r.Redis != nil {
		// 覆盖后旧缓存失效
		r.Redis.Del(ctx, fmt.Sprintf(learningPathCacheKey, path.TopicID))
	}
	return nil
}

func (r *LearningPathRepository) FindByTopicID(ctx context.Context, topicID string) (*model.LearningPath, error) {
	key := fmt.Sprintf(learningPathCacheKey, topicID)
	if r.Redis != nil {
		cached, err := r.Redis.Get(ctx, key).Bytes()
		if err == nil {
			var path model.LearningPath
			if err := json.Unmarshal(cached, &path); err == nil {
				return &path, nil
			}
			r.Redis.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Learning path cache read failed", zap.String("topic_id", topicID), zap.Error(err))
		}
	}

	var path model.LearningPath
	err := r.DB.WithContext(ctx).Where("topic_id = ?", topicID).First(&path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("learning path %q: %w", topicID, mastery.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(&path); err == nil {
			r.Redis.Set(ctx, key, data, r.CacheTTL)
		}
	}
	return &path, nil
}

func (r *LearningPathRepository) List(ctx context.Context) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	err := r.DB.WithContext(ctx).Order("created_at asc, topic_id asc").Find(&paths).Error
	return paths, err
}
