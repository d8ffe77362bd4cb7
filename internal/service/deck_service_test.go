package service_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"quizpath_backend/internal/leitner"
	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/model"
	"quizpath_backend/internal/repository"
	"quizpath_backend/internal/service"
	"quizpath_backend/internal/util"
)

type memArchiver struct {
	keys    []string
	deleted []string
	err     error
}

func (a *memArchiver) Delete(ctx context.Context, key string) error {
	a.deleted = append(a.deleted, key)
	return nil
}

func (a *memArchiver) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	a.keys = append(a.keys, key)
	return "/uploads/" + key, nil
}

func newDeckService(t *testing.T, archiver service.Archiver, defaultFile string) *service.DeckService {
	t.Helper()
	db := openDB(t)
	return service.NewDeckService(
		repository.NewDeckRepository(db),
		repository.NewReviewSessionRepository(db),
		archiver,
		defaultFile,
	)
}

func TestParseDelimited(t *testing.T) {
	input := "capital of France, Paris\n\nno delimiter here\n2+2,4, really\n"
	cards, err := service.ParseDelimited(strings.NewReader(input), "")
	if err != nil {
		t.Fatalf("ParseDelimited() error = %v", err)
	}
	want := []model.Flashcard{
		{Question: "capital of France", Answer: "Paris"},
		{Question: "2+2", Answer: "4, really"},
	}
	if len(cards) != len(want) {
		t.Fatalf("ParseDelimited() = %+v, want %+v", cards, want)
	}
	for i := range want {
		if cards[i] != want[i] {
			t.Errorf("cards[%d] = %+v, want %+v", i, cards[i], want[i])
		}
	}

	cards, err = service.ParseDelimited(strings.NewReader("a|b\nc,d\n"), "|")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 || cards[0].Answer != "b" {
		t.Errorf("ParseDelimited(|) = %+v", cards)
	}
}

func TestDeckService_DefaultDeck(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "default_deck.json")
	writeFile(t, file, `{"name":"default","flashcards":[{"question":"Q1","answer":"A1"},{"question":" ","answer":"x"}]}`)

	svc := newDeckService(t, nil, file)
	deck, err := svc.GetDeck(ctx, model.DefaultDeckName)
	if err != nil {
		t.Fatalf("GetDeck(default) error = %v", err)
	}
	if len(deck.Flashcards) != 1 {
		t.Errorf("default deck = %+v, want blank cards dropped", deck.Flashcards)
	}

	if err := svc.EnsureDefaultDeck(ctx); err != nil {
		t.Fatalf("EnsureDefaultDeck() error = %v", err)
	}
	decks, err := svc.ListDecks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(decks) != 1 || decks[0].Name != model.DefaultDeckName {
		t.Errorf("ListDecks() = %+v", decks)
	}

	// 缺失文件时返回空卡组而不是错误
	empty := service.LoadDefaultDeckFile(filepath.Join(t.TempDir(), "missing.json"))
	if empty.Name != model.DefaultDeckName || len(empty.Flashcards) != 0 {
		t.Errorf("LoadDefaultDeckFile(missing) = %+v", empty)
	}
}

func TestDeckService_SaveDeckValidation(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t, nil, "")

	if _, err := svc.SaveDeck(ctx, service.DeckRequest{Name: " "}); !mastery.IsValidationError(err) {
		t.Errorf("SaveDeck(blank name) error = %v, want ValidationError", err)
	}
	if _, err := svc.SaveDeck(ctx, service.DeckRequest{Name: "go"}); !mastery.IsValidationError(err) {
		t.Errorf("SaveDeck(no cards) error = %v, want ValidationError", err)
	}
	if _, err := svc.GetDeck(ctx, "nope"); !errors.Is(err, mastery.ErrNotFound) {
		t.Errorf("GetDeck(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDeckService_ImportDelimited(t *testing.T) {
	ctx := context.Background()
	archiver := &memArchiver{}
	svc := newDeckService(t, archiver, "")

	deck, err := svc.ImportDelimited(ctx, "", ",", "capitals.csv", []byte("France,Paris\nJapan,Tokyo\n"))
	if err != nil {
		t.Fatalf("ImportDelimited() error = %v", err)
	}
	if deck.Name != "capitals" || len(deck.Flashcards) != 2 {
		t.Errorf("ImportDelimited() = %+v", deck)
	}
	if len(archiver.keys) != 1 || !strings.HasSuffix(archiver.keys[0], ".csv") || deck.SourceURL == "" {
		t.Errorf("archived keys = %v, sourceUrl = %q", archiver.keys, deck.SourceURL)
	}

	if _, err := svc.ImportDelimited(ctx, "x", ",", "x.txt", []byte("no delimiters\n")); !mastery.IsValidationError(err) {
		t.Errorf("ImportDelimited(no delimiter) error = %v, want ValidationError", err)
	}

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if _, err := svc.ImportDelimited(ctx, "img", ",", "img.png", png); !errors.Is(err, util.ErrInvalidUpload) {
		t.Errorf("ImportDelimited(png) error = %v, want ErrInvalidUpload", err)
	}
}

func TestDeckService_ImportSurvivesArchiveFailure(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t, &memArchiver{err: errors.New("bucket gone")}, "")

	deck, err := svc.ImportDelimited(ctx, "words", ";", "words.txt", []byte("hola;hello\n"))
	if err != nil {
		t.Fatalf("ImportDelimited() error = %v", err)
	}
	if deck.SourceURL != "" {
		t.Errorf("SourceURL = %q, want empty when archiving fails", deck.SourceURL)
	}
}

func TestDeckService_Review(t *testing.T) {
	ctx := context.Background()
	svc := newDeckService(t, nil, "")
	_, err := svc.SaveDeck(ctx, service.DeckRequest{Name: "trio", Flashcards: []model.Flashcard{
		{Question: "q0", Answer: "a0"},
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	card, err := svc.NextCard(ctx, "u1", "trio")
	if err != nil {
		t.Fatalf("NextCard() error = %v", err)
	}
	if card.Index != 0 || card.Bucket != leitner.BucketA || card.Buckets.A != 3 {
		t.Errorf("NextCard() = %+v", card)
	}

	// 答对后第 0 张进入 B，状态需要持久化
	card, err = svc.Answer(ctx, "u1", "trio", true)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if card.Buckets.B != 1 || card.Buckets.A != 2 {
		t.Errorf("after correct buckets = %+v, want A=2 B=1", card.Buckets)
	}

	card, err = svc.Answer(ctx, "u1", "trio", false)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if card.Buckets.A+card.Buckets.B+card.Buckets.C != 3 {
		t.Errorf("buckets = %+v, want 3 cards in total", card.Buckets)
	}

	card, err = svc.ResetReview(ctx, "u1", "trio")
	if err != nil {
		t.Fatalf("ResetReview() error = %v", err)
	}
	if card.Buckets.A != 3 || card.Index != 0 {
		t.Errorf("ResetReview() = %+v, want all cards in A", card)
	}

	// 其他用户的会话独立
	other, err := svc.NextCard(ctx, "u2", "trio")
	if err != nil {
		t.Fatal(err)
	}
	if other.Buckets.A != 3 {
		t.Errorf("u2 buckets = %+v", other.Buckets)
	}
}

func TestDeckService_ReviewEmptyDeck(t *testing.T) {
	svc := newDeckService(t, nil, "")
	if _, err := svc.NextCard(context.Background(), "u1", model.DefaultDeckName); !mastery.IsValidationError(err) {
		t.Errorf("NextCard(empty default) error = %v, want ValidationError", err)
	}
}
