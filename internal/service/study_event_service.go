package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"quizpath_backend/internal/model"

	"gorm.io/datatypes"
)

// RecentStudyEvents 查询接口最多返回的条数
const RecentStudyEvents = 100

type StudyEventStore interface {
	Append(ctx context.Context, event *model.StudyEvent) error
	Recent(ctx context.Context, limit int) ([]model.StudyEvent, error)
}

type StudyEventService struct {
	Store StudyEventStore
	now   func() time.Time
}

func NewStudyEventService(store StudyEventStore) *StudyEventService {
	return &StudyEventService{Store: store, now: time.Now}
}

type StudyEventRequest struct {
	Timestamp      *time.Time      `json:"timestamp"`
	Event          string          `json:"event"`
	Totals         json.RawMessage `json:"totals" swaggertype:"object"`
	BucketSnapshot json.RawMessage `json:"bucketSnapshot" swaggertype:"object"`
}

// Record 缺省事件名为 unknown，缺省时间为服务端当前时间
func (s *StudyEventService) Record(ctx context.Context, req StudyEventRequest) (*model.StudyEvent, error) {
	event := &model.StudyEvent{
		Event:          strings.TrimSpace(req.Event),
		Totals:         rawJSON(req.Totals),
		BucketSnapshot: rawJSON(req.BucketSnapshot),
	}
	if event.Event == "" {
		event.Event = "unknown"
	}
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		event.Timestamp = req.Timestamp.UTC()
	} else {
		event.Timestamp = s.now().UTC()
	}

	if err := s.Store.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Recent limit 超出范围时按 RecentStudyEvents 处理
func (s *StudyEventService) Recent(ctx context.Context, limit int) ([]model.StudyEvent, error) {
	if limit <= 0 || limit > RecentStudyEvents {
		limit = RecentStudyEvents
	}
	return s.Store.Recent(ctx, limit)
}

func rawJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
