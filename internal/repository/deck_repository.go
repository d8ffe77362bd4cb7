package repository

import (
	"context"
	"errors"
	"fmt"

	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeckRepository struct {
	DB *gorm.DB
}

func NewDeckRepository(db *gorm.DB) *DeckRepository {
	return &DeckRepository{DB: db}
}

// Save 同名卡组整体覆盖
func (r *DeckRepository) Save(ctx context.Context, deck *model.Deck) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"flashcards", "source_url", "updated_at"}),
	}).Create(deck).Error
}

func (r *DeckRepository) FindByName(ctx context.Context, name string) (*model.Deck, error) {
	var deck model.Deck
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&deck).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("deck %q: %w", name, mastery.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

func (r *DeckRepository) List(ctx context.Context) ([]model.Deck, error) {
	var decks []model.Deck
	err := r.DB.WithContext(ctx).Order("name asc").Find(&decks).Error
	return decks, err
}

// ReviewSessionRepository 每个 (用户, 卡组) 一条复习状态
type ReviewSessionRepository struct {
	DB *gorm.DB
}

func NewReviewSessionRepository(db *gorm.DB) *ReviewSessionRepository {
	return &ReviewSessionRepository{DB: db}
}

// Find 不存在时返回 (nil, nil)
func (r *ReviewSessionRepository) Find(ctx context.Context, userID, deckName string) (*model.ReviewSession, error) {
	var sessions []model.ReviewSession
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND deck_name = ?", userID, deckName).
		Limit(1).Find(&sessions).Error
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return &sessions[0], nil
}

func (r *ReviewSessionRepository) Save(ctx context.Context, session *model.ReviewSession) error {
	return r.DB.WithContext(ctx).Save(session).Error
}
