package model

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultDeckName = "default"

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// swagger:model Deck
type Deck struct {
	Name       string                         `gorm:"primaryKey;type:varchar(128)" json:"name"`
	Flashcards datatypes.JSONSlice[Flashcard] `json:"flashcards"`
	SourceURL  string                         `gorm:"size:500" json:"sourceUrl,omitempty"` // 导入时归档的原始文件
	CreatedAt  time.Time                      `json:"createdAt"`
	UpdatedAt  time.Time                      `json:"updatedAt"`
}

func (Deck) TableName() string {
	return "decks"
}

// ReviewSession 用户在某个卡组上的 Leitner 复习状态
type ReviewSession struct {
	UserID        string                   `gorm:"primaryKey;type:varchar(128)" json:"userId"`
	DeckName      string                   `gorm:"primaryKey;type:varchar(128)" json:"deckName"`
	BucketA       datatypes.JSONSlice[int] `json:"bucketA"`
	BucketB       datatypes.JSONSlice[int] `json:"bucketB"`
	BucketC       datatypes.JSONSlice[int] `json:"bucketC"`
	Counter       int                      `gorm:"not null;default:1" json:"counter"`
	CurrentBucket string                   `gorm:"size:1" json:"currentBucket"`
	CardCount     int                      `gorm:"not null;default:0" json:"cardCount"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

func (ReviewSession) TableName() string {
	return "review_sessions"
}
