package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"quizpath_backend/internal/leitner"
	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/model"
	"quizpath_backend/internal/util"
	"quizpath_backend/pkg/logger"
	"quizpath_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type DeckStore interface {
	Save(ctx context.Context, deck *model.Deck) error
	FindByName(ctx context.Context, name string) (*model.Deck, error)
	List(ctx context.Context) ([]model.Deck, error)
}

type ReviewSessionStore interface {
	Find(ctx context.Context, userID, deckName string) (*model.ReviewSession, error)
	Save(ctx context.Context, session *model.ReviewSession) error
}

// Archiver 归档导入的原始文件
type Archiver interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type DeckService struct {
	Decks           DeckStore
	Sessions        ReviewSessionStore
	Storage         Archiver
	DefaultDeckFile string
}

func NewDeckService(decks DeckStore, sessions ReviewSessionStore, storage Archiver, defaultDeckFile string) *DeckService {
	return &DeckService{
		Decks:           decks,
		Sessions:        sessions,
		Storage:         storage,
		DefaultDeckFile: defaultDeckFile,
	}
}

type DeckRequest struct {
	Name       string            `json:"name" binding:"required"`
	Flashcards []model.Flashcard `json:"flashcards"`
}

// ReviewCard 当前要复习的卡片
type ReviewCard struct {
	Index    int            `json:"index"`
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Bucket   leitner.Bucket `json:"bucket"`
	Buckets  BucketCounts   `json:"buckets"`
}

type BucketCounts struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
}

// LoadDefaultDeckFile 读取默认卡组文件，文件缺失或格式错误时返回空的默认卡组
func LoadDefaultDeckFile(file string) *model.Deck {
	deck := &model.Deck{Name: model.DefaultDeckName, Flashcards: datatypes.JSONSlice[model.Flashcard]{}}
	if file == "" {
		return deck
	}
	data, err := os.ReadFile(file)
	if err != nil {
		logger.Log.Warn("Default deck file unavailable", zap.String("file", file), zap.Error(err))
		return deck
	}
	var payload DeckRequest
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warn("Default deck file is not valid JSON", zap.String("file", file), zap.Error(err))
		return deck
	}
	deck.Flashcards = cleanFlashcards(payload.Flashcards)
	return deck
}

// EnsureDefaultDeck 启动时把默认卡组写入存储，已存在则保持不变
func (s *DeckService) EnsureDefaultDeck(ctx context.Context) error {
	_, err := s.Decks.FindByName(ctx, model.DefaultDeckName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mastery.ErrNotFound) {
		return err
	}
	return s.Decks.Save(ctx, LoadDefaultDeckFile(s.DefaultDeckFile))
}

func (s *DeckService) GetDeck(ctx context.Context, name string) (*model.Deck, error) {
	deck, err := s.Decks.FindByName(ctx, name)
	if errors.Is(err, mastery.ErrNotFound) && name == model.DefaultDeckName {
		return LoadDefaultDeckFile(s.DefaultDeckFile), nil
	}
	return deck, err
}

func (s *DeckService) ListDecks(ctx context.Context) ([]model.Deck, error) {
	return s.Decks.List(ctx)
}

func (s *DeckService) SaveDeck(ctx context.Context, req DeckRequest) (*model.Deck, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &mastery.ValidationError{Field: "name", Reason: "is required"}
	}
	cards := cleanFlashcards(req.Flashcards)
	if len(cards) == 0 {
		return nil, &mastery.ValidationError{Field: "flashcards", Reason: "at least one flashcard with question and answer is required"}
	}
	deck := &model.Deck{Name: name, Flashcards: cards}
	if err := s.Decks.Save(ctx, deck); err != nil {
		return nil, err
	}
	logger.Log.Info("Deck saved", zap.String("deck", name), zap.Int("cards", len(cards)))
	return deck, nil
}

// ParseDelimited 每个非空行按第一个分隔符拆成问题和答案，其余部分原样拼回答案；
// 没有分隔符的行跳过。
func ParseDelimited(r io.Reader, delimiter string) ([]model.Flashcard, error) {
	if delimiter == "" {
		delimiter = ","
	}
	var cards []model.Flashcard
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		question, answer, found := strings.Cut(line, delimiter)
		if !found {
			continue
		}
		cards = append(cards, model.Flashcard{
			Question: strings.TrimSpace(question),
			Answer:   strings.TrimSpace(answer),
		})
	}
	return cards, scanner.Err()
}

// ImportDelimited 导入分隔文本卡组，原始文件归档到存储
func (s *DeckService) ImportDelimited(ctx context.Context, name, delimiter, filename string, data []byte) (*model.Deck, error) {
	mimeType, err := util.ValidateMimeType(bytes.NewReader(data), util.AllowedDeckUploadTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidUpload, err)
	}

	cards, err := ParseDelimited(bytes.NewReader(data), delimiter)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, &mastery.ValidationError{Field: "file", Reason: "no lines contain the delimiter"}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	}
	deck := &model.Deck{Name: name, Flashcards: cleanFlashcards(cards)}
	if len(deck.Flashcards) == 0 {
		return nil, &mastery.ValidationError{Field: "file", Reason: "no usable flashcards"}
	}

	archived := ""
	if s.Storage != nil {
		key := fmt.Sprintf("decks/%s/%s%s", time.Now().Format("20060102"), uuid.New().String(), path.Ext(filename))
		url, err := s.Storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mimeType)
		if err != nil {
			// 归档失败不影响导入
			logger.Log.Warn("Failed to archive deck upload", zap.String("deck", name), zap.Error(err))
		} else {
			deck.SourceURL = url
			archived = key
		}
	}

	if err := s.Decks.Save(ctx, deck); err != nil {
		if archived != "" {
			if derr := s.Storage.Delete(ctx, archived); derr != nil {
				logger.Log.Warn("Failed to remove archived upload", zap.String("key", archived), zap.Error(derr))
			}
		}
		return nil, err
	}
	logger.Log.Info("Deck imported", zap.String("deck", name), zap.Int("cards", len(deck.Flashcards)))
	return deck, nil
}

// NextCard 返回下一张要复习的卡片
func (s *DeckService) NextCard(ctx context.Context, userID, deckName string) (*ReviewCard, error) {
	deck, session, err := s.loadSession(ctx, userID, deckName)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, userID, deck, session)
}

// Answer 对当前卡片作答后返回下一张
func (s *DeckService) Answer(ctx context.Context, userID, deckName string, correct bool) (*ReviewCard, error) {
	deck, session, err := s.loadSession(ctx, userID, deckName)
	if err != nil {
		return nil, err
	}
	monitoring.ReviewCounter.WithLabelValues(string(session.Current), monitoring.Outcome(correct)).Inc()
	if correct {
		session.Correct()
	} else {
		session.Wrong()
	}
	return s.advance(ctx, userID, deck, session)
}

// ResetReview 所有卡片回到 A
func (s *DeckService) ResetReview(ctx context.Context, userID, deckName string) (*ReviewCard, error) {
	deck, err := s.GetDeck(ctx, deckName)
	if err != nil {
		return nil, err
	}
	session := leitner.NewSession(len(deck.Flashcards))
	return s.advance(ctx, userID, deck, session)
}

func (s *DeckService) loadSession(ctx context.Context, userID, deckName string) (*model.Deck, *leitner.Session, error) {
	deck, err := s.GetDeck(ctx, deckName)
	if err != nil {
		return nil, nil, err
	}
	stored, err := s.Sessions.Find(ctx, userID, deck.Name)
	if err != nil {
		return nil, nil, err
	}
	// 卡组内容变化后旧的下标不再有效
	if stored == nil || stored.CardCount != len(deck.Flashcards) {
		return deck, leitner.NewSession(len(deck.Flashcards)), nil
	}
	return deck, &leitner.Session{
		A:       stored.BucketA,
		B:       stored.BucketB,
		C:       stored.BucketC,
		Counter: stored.Counter,
		Current: leitner.Bucket(stored.CurrentBucket),
	}, nil
}

func (s *DeckService) advance(ctx context.Context, userID string, deck *model.Deck, session *leitner.Session) (*ReviewCard, error) {
	index, err := session.Next()
	if errors.Is(err, leitner.ErrEmpty) {
		return nil, &mastery.ValidationError{Field: "deck", Reason: fmt.Sprintf("deck %q has no flashcards", deck.Name)}
	}
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(deck.Flashcards) {
		return nil, fmt.Errorf("review session points at card %d of %d", index, len(deck.Flashcards))
	}

	if err := s.Sessions.Save(ctx, &model.ReviewSession{
		UserID:        userID,
		DeckName:      deck.Name,
		BucketA:       session.A,
		BucketB:       session.B,
		BucketC:       session.C,
		Counter:       session.Counter,
		CurrentBucket: string(session.Current),
		CardCount:     len(deck.Flashcards),
	}); err != nil {
		return nil, err
	}

	card := deck.Flashcards[index]
	return &ReviewCard{
		Index:    index,
		Question: card.Question,
		Answer:   card.Answer,
		Bucket:   session.Current,
		Buckets:  BucketCounts{A: len(session.A), B: len(session.B), C: len(session.C)},
	}, nil
}

func cleanFlashcards(cards []model.Flashcard) datatypes.JSONSlice[model.Flashcard] {
	out := make(datatypes.JSONSlice[model.Flashcard], 0, len(cards))
	for _, c := range cards {
		q, a := strings.TrimSpace(c.Question), strings.TrimSpace(c.Answer)
		if q == "" || a == "" {
			continue
		}
		out = append(out, model.Flashcard{Question: q, Answer: a})
	}
	return out
}
