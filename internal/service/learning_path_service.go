package service

import (
	"context"
	"fmt"

	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/model"
	"quizpath_backend/pkg/logger"
	"quizpath_backend/pkg/monitoring"
	"quizpath_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// CurriculumStore 课程存储，按 topicId 整体覆盖
type CurriculumStore interface {
	Save(ctx context.Context, path *model.LearningPath) error
	FindByTopicID(ctx context.Context, topicID string) (*model.LearningPath, error)
	List(ctx context.Context) ([]model.LearningPath, error)
}

// ProgressStore 学习记录存储，写入按 (userId, topicId, conceptId) 覆盖
type ProgressStore interface {
	LoadRecords(ctx context.Context, topicID, userID string) ([]model.ProgressRecord, error)
	ReplaceAll(ctx context.Context, records []model.ProgressRecord) error
}

type LearningPathService struct {
	Curricula CurriculumStore
	Progress  ProgressStore
}

func NewLearningPathService(curricula CurriculumStore, progress ProgressStore) *LearningPathService {
	return &LearningPathService{
		Curricula: curricula,
		Progress:  progress,
	}
}

type AttemptRequest struct {
	UserID    string `json:"userId" binding:"required"`
	TopicID   string `json:"topicId" binding:"required"`
	ConceptID string `json:"conceptId" binding:"required"`
	IsCorrect *bool  `json:"isCorrect" binding:"required"`
}

type AttemptResult struct {
	Progress     model.ProgressRecord `json:"progress"`
	ConceptState mastery.ConceptState `json:"conceptState"`
	NextQuestion model.Variant        `json:"nextQuestion"`
	Rationale    *mastery.Remediation `json:"rationale"`
}

// CreateLearningPath 规范化后整体覆盖同 topicId 的课程
func (s *LearningPathService) CreateLearningPath(ctx context.Context, raw mastery.RawLearningPath) (*model.LearningPath, error) {
	ctx, span := tracing.StartSpan(ctx, "LearningPathService.CreateLearningPath", attribute.String("topic_id", raw.TopicID))
	defer span.End()

	path, err := mastery.Normalize(raw)
	if err != nil {
		logger.Log.Info("Rejected learning path", zap.String("topic_id", raw.TopicID), zap.Error(err))
		return nil, err
	}

	if err := s.Curricula.Save(ctx, path); err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.Log.Error("Failed to save learning path", zap.String("topic_id", path.TopicID), zap.Error(err))
		return nil, err
	}

	// 重新读取，拿到覆盖前的创建时间
	stored, err := s.Curricula.FindByTopicID(ctx, path.TopicID)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Learning path saved",
		zap.String("topic_id", stored.TopicID),
		zap.Int("concepts", len(stored.Concepts)),
	)
	return stored, nil
}

func (s *LearningPathService) GetLearningPath(ctx context.Context, topicID string) (*model.LearningPath, error) {
	return s.Curricula.FindByTopicID(ctx, topicID)
}

// DecorateLearningPath 每次请求重新计算学习者视图，不做缓存
func (s *LearningPathService) DecorateLearningPath(ctx context.Context, topicID, userID string) (*mastery.DecoratedPath, error) {
	ctx, span := tracing.StartSpan(ctx, "LearningPathService.DecorateLearningPath",
		attribute.String("topic_id", topicID),
		attribute.String("user_id", userID),
	)
	defer span.End()

	path, err := s.Curricula.FindByTopicID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	records, err := s.Progress.LoadRecords(ctx, topicID, userID)
	if err != nil {
		return nil, err
	}
	view := mastery.Decorate(path, records, userID)
	return &view, nil
}

func (s *LearningPathService) ListLearningPaths(ctx context.Context) ([]model.LearningPathSummary, error) {
	paths, err := s.Curricula.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.LearningPathSummary, 0, len(paths))
	for _, p := range paths {
		summaries = append(summaries, model.LearningPathSummary{
			TopicID:      p.TopicID,
			TopicName:    p.TopicName,
			Description:  p.Description,
			ConceptCount: len(p.Concepts),
			CreatedAt:    p.CreatedAt,
		})
	}
	return summaries, nil
}

// ListProgress 空字符串表示不按该字段过滤
func (s *LearningPathService) ListProgress(ctx context.Context, userID, topicID string) ([]model.ProgressRecord, error) {
	records, err := s.Progress.LoadRecords(ctx, topicID, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProgressRecord, 0, len(records))
	for _, r := range records {
		if mastery.Usable(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// RecordAttempt 记录一次作答。
// 锁定的概念在写入前拒绝，不会创建或修改任何记录。
func (s *LearningPathService) RecordAttempt(ctx context.Context, req AttemptRequest) (*AttemptResult, error) {
	ctx, span := tracing.StartSpan(ctx, "LearningPathService.RecordAttempt",
		attribute.String("topic_id", req.TopicID),
		attribute.String("concept_id", req.ConceptID),
		attribute.String("user_id", req.UserID),
	)
	defer span.End()

	correct := req.IsCorrect != nil && *req.IsCorrect
	log := logger.Log.With(
		zap.String("user_id", req.UserID),
		zap.String("topic_id", req.TopicID),
		zap.String("concept_id", req.ConceptID),
	)

	// 1. 查找课程和概念
	path, err := s.Curricula.FindByTopicID(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}
	concepts := mastery.OrderedConcepts(path)
	index := -1
	for i, c := range concepts {
		if c.ConceptID == req.ConceptID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("concept %q in topic %q: %w", req.ConceptID, req.TopicID, mastery.ErrNotFound)
	}
	concept := concepts[index]

	// 2. 写路径上的解锁校验
	records, err := s.Progress.LoadRecords(ctx, req.TopicID, req.UserID)
	if err != nil {
		log.Error("Failed to load progress", zap.Error(err))
		return nil, err
	}
	byConcept := mastery.IndexRecords(records, req.TopicID, req.UserID)
	if err := mastery.CheckUnlocked(concepts, index, byConcept); err != nil {
		monitoring.LockedAttemptCounter.Inc()
		log.Info("Attempt rejected, concept locked")
		return nil, err
	}

	// 3. 读取或初始化记录，应用状态机后覆盖写入
	record, ok := byConcept[req.ConceptID]
	if !ok {
		record = mastery.NewProgressRecord(req.UserID, req.TopicID, req.ConceptID)
	}
	before := record.CurrentDifficulty
	record = mastery.ApplyAttempt(record, correct)

	saved := []model.ProgressRecord{record}
	if err := s.Progress.ReplaceAll(ctx, saved); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Error("Failed to save progress", zap.Error(err))
		return nil, err
	}
	record = saved[0]

	monitoring.AttemptCounter.WithLabelValues(req.TopicID, monitoring.Outcome(correct)).Inc()
	if before.IsValid() && before != record.CurrentDifficulty {
		monitoring.TierTransitionCounter.WithLabelValues(before.String(), record.CurrentDifficulty.String()).Inc()
	}

	// 4. 重新计算视图得到该概念的新状态
	byConcept[req.ConceptID] = record
	updated := make([]model.ProgressRecord, 0, len(byConcept))
	for _, r := range byConcept {
		updated = append(updated, r)
	}
	view := mastery.Decorate(path, updated, req.UserID)
	state, _ := view.ConceptState(req.ConceptID)

	// 5. 下一题按新档位、seed=attempts 选取；答错时附带讲解
	result := &AttemptResult{
		Progress:     record,
		ConceptState: state,
		NextQuestion: mastery.NextQuestion(concept, record.CurrentDifficulty, record.Attempts),
	}
	if !correct {
		result.Rationale = mastery.Remediate(concept, record.CurrentDifficulty, record.Attempts)
	}

	log.Info("Attempt recorded",
		zap.Bool("correct", correct),
		zap.Stringer("difficulty", record.CurrentDifficulty),
		zap.Int("streak", record.Streak),
		zap.String("state", string(state)),
	)
	return result, nil
}
