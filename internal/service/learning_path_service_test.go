package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/model"
	"quizpath_backend/internal/repository"
	"quizpath_backend/internal/service"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.LearningPath{},
		&model.ProgressRecord{},
		&model.Deck{},
		&model.ReviewSession{},
		&model.StudyEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newLearningPathService(t *testing.T) *service.LearningPathService {
	t.Helper()
	db := openDB(t)
	return service.NewLearningPathService(
		repository.NewLearningPathRepository(db, nil, 0),
		repository.NewProgressRepository(db),
	)
}

func question(text, answer string) mastery.RawBaseQuestion {
	return mastery.RawBaseQuestion{
		QuestionText:     text,
		CorrectAnswer:    answer,
		IncorrectAnswers: []string{"wrong one", "wrong two", "wrong three"},
	}
}

func arraysPath() mastery.RawLearningPath {
	return mastery.RawLearningPath{
		TopicID:   "arrays",
		TopicName: "Arrays",
		Concepts: []mastery.RawConcept{
			{ConceptID: "a", Title: "Indexing", BaseQuestions: []mastery.RawBaseQuestion{
				question("What is the first index?", "0"),
				question("What does len return?", "The length"),
			}},
			{ConceptID: "b", Title: "Slicing", BaseQuestions: []mastery.RawBaseQuestion{
				question("What does s[1:] drop?", "The first element"),
			}},
		},
	}
}

func attempt(userID, conceptID string, correct bool) service.AttemptRequest {
	return service.AttemptRequest{UserID: userID, TopicID: "arrays", ConceptID: conceptID, IsCorrect: &correct}
}

func TestCreateLearningPath(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)

	path, err := svc.CreateLearningPath(ctx, arraysPath())
	if err != nil {
		t.Fatalf("CreateLearningPath() error = %v", err)
	}
	if len(path.Concepts) != 2 || path.Concepts[1].Order != 2 {
		t.Fatalf("CreateLearningPath() concepts = %+v", path.Concepts)
	}
	if path.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	_, err = svc.CreateLearningPath(ctx, mastery.RawLearningPath{TopicID: "empty"})
	if !mastery.IsValidationError(err) {
		t.Errorf("CreateLearningPath(no concepts) error = %v, want ValidationError", err)
	}

	summaries, err := svc.ListLearningPaths(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].ConceptCount != 2 {
		t.Errorf("ListLearningPaths() = %+v", summaries)
	}
}

func TestRecordAttempt_FirstCorrect(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)
	if _, err := svc.CreateLearningPath(ctx, arraysPath()); err != nil {
		t.Fatal(err)
	}

	res, err := svc.RecordAttempt(ctx, attempt("u1", "a", true))
	if err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
	if !res.Progress.MediumPassed || res.Progress.CurrentDifficulty != model.DifficultyExpert {
		t.Errorf("Progress = %+v, want medium passed at expert", res.Progress)
	}
	if res.Progress.Attempts != 1 || res.Progress.ID == "" {
		t.Errorf("Progress = %+v, want 1 attempt and an id", res.Progress)
	}
	if res.ConceptState != mastery.StateActive {
		t.Errorf("ConceptState = %q, want %q", res.ConceptState, mastery.StateActive)
	}
	if res.NextQuestion.Difficulty != model.DifficultyExpert {
		t.Errorf("NextQuestion.Difficulty = %v, want expert", res.NextQuestion.Difficulty)
	}
	if res.Rationale != nil {
		t.Errorf("Rationale = %+v, want nil for a correct answer", res.Rationale)
	}
}

func TestRecordAttempt_WrongAddsRationale(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)
	if _, err := svc.CreateLearningPath(ctx, arraysPath()); err != nil {
		t.Fatal(err)
	}

	res, err := svc.RecordAttempt(ctx, attempt("u1", "a", false))
	if err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
	if res.Progress.CurrentDifficulty != model.DifficultyMedium || res.Progress.Streak != 0 {
		t.Errorf("Progress = %+v, want medium with no streak", res.Progress)
	}
	if res.Rationale == nil {
		t.Fatal("Rationale = nil, want remediation")
	}
	// attempts=1，答错的是第 0 题
	if res.Rationale.CorrectAnswer != "0" {
		t.Errorf("Rationale.CorrectAnswer = %q, want %q", res.Rationale.CorrectAnswer, "0")
	}
}

func TestRecordAttempt_LockedCreatesNothing(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)
	if _, err := svc.CreateLearningPath(ctx, arraysPath()); err != nil {
		t.Fatal(err)
	}

	_, err := svc.RecordAttempt(ctx, attempt("u1", "b", true))
	if !errors.Is(err, mastery.ErrLocked) {
		t.Fatalf("RecordAttempt(locked) error = %v, want ErrLocked", err)
	}

	records, err := svc.ListProgress(ctx, "u1", "arrays")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("ListProgress() = %d records, want 0", len(records))
	}
}

func TestRecordAttempt_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)
	if _, err := svc.CreateLearningPath(ctx, arraysPath()); err != nil {
		t.Fatal(err)
	}

	correct := true
	if _, err := svc.RecordAttempt(ctx, service.AttemptRequest{UserID: "u1", TopicID: "missing", ConceptID: "a", IsCorrect: &correct}); !errors.Is(err, mastery.ErrNotFound) {
		t.Errorf("unknown topic error = %v, want ErrNotFound", err)
	}
	if _, err := svc.RecordAttempt(ctx, attempt("u1", "zzz", true)); !errors.Is(err, mastery.ErrNotFound) {
		t.Errorf("unknown concept error = %v, want ErrNotFound", err)
	}
}

func TestRecordAttempt_MasteryUnlocksNext(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)
	if _, err := svc.CreateLearningPath(ctx, arraysPath()); err != nil {
		t.Fatal(err)
	}

	// medium 1 + expert 2 + professor 3
	var last *service.AttemptResult
	for i := 0; i < 6; i++ {
		res, err := svc.RecordAttempt(ctx, attempt("u1", "a", true))
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		last = res
	}
	if last.ConceptState != mastery.StateMastered {
		t.Fatalf("ConceptState = %q, want mastered", last.ConceptState)
	}
	if last.Progress.Attempts != 6 {
		t.Errorf("Attempts = %d, want 6", last.Progress.Attempts)
	}

	view, err := svc.DecorateLearningPath(ctx, "arrays", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if view.Concepts[1].State != mastery.StateActive {
		t.Errorf("concept b state = %q, want active", view.Concepts[1].State)
	}

	// 其他用户不受影响
	other, err := svc.DecorateLearningPath(ctx, "arrays", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if other.Concepts[1].State != mastery.StateLocked {
		t.Errorf("u2 concept b state = %q, want locked", other.Concepts[1].State)
	}

	if _, err := svc.RecordAttempt(ctx, attempt("u1", "b", true)); err != nil {
		t.Errorf("RecordAttempt(b) after mastery error = %v", err)
	}

	records, err := svc.ListProgress(ctx, "u1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("ListProgress() = %d records, want one per concept", len(records))
	}
}

func TestExportProgress(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)
	if _, err := svc.CreateLearningPath(ctx, arraysPath()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordAttempt(ctx, attempt("u1", "a", true)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := svc.ExportProgress(ctx, &buf, "u1", "arrays")
	if err != nil {
		t.Fatalf("ExportProgress() error = %v", err)
	}
	if n != 1 {
		t.Errorf("ExportProgress() rows = %d, want 1", n)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Progress")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[1][2] != "a" || rows[1][3] != "expert" {
		t.Errorf("row = %v", rows[1])
	}
}

func TestSeedCurricula(t *testing.T) {
	ctx := context.Background()
	svc := newLearningPathService(t)
	dir := t.TempDir()

	valid := `topicId: loops
topicName: Loops
concepts:
  - conceptId: for
    baseQuestions:
      - questionText: How many times does for i := 0; i < 3; i++ run?
        correctAnswer: "3"
        incorrectAnswers: ["2", "4", "infinite"]
`
	writeFile(t, filepath.Join(dir, "loops.yaml"), valid)
	writeFile(t, filepath.Join(dir, "broken.yml"), "topicId: broken\nconcepts: []\n")
	writeFile(t, filepath.Join(dir, "unknown.yaml"), "topicId: x\nsurprise: true\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	n, err := svc.SeedCurricula(ctx, dir)
	if err != nil {
		t.Fatalf("SeedCurricula() error = %v", err)
	}
	if n != 1 {
		t.Errorf("SeedCurricula() = %d, want 1", n)
	}
	path, err := svc.GetLearningPath(ctx, "loops")
	if err != nil {
		t.Fatalf("GetLearningPath() error = %v", err)
	}
	if path.Concepts[0].Title != "for" {
		t.Errorf("Title = %q, want conceptId default", path.Concepts[0].Title)
	}

	if n, err := svc.SeedCurricula(ctx, filepath.Join(dir, "missing")); err != nil || n != 0 {
		t.Errorf("SeedCurricula(missing) = %d, %v; want 0, nil", n, err)
	}
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
