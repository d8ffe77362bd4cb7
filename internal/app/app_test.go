package app_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizpath_backend/internal/app"
	"quizpath_backend/internal/config"
	"quizpath_backend/internal/model"
	"quizpath_backend/internal/util"
	"quizpath_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:  config.ServerConfig{Port: "0", Mode: "test"},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		JWT:     config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *app.App {
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
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return app.New(cfg, db, nil)
}

func do(t *testing.T, a *app.App, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func curriculum() map[string]interface{} {
	q := func(text, answer string) map[string]interface{} {
		return map[string]interface{}{
			"questionText":     text,
			"correctAnswer":    answer,
			"incorrectAnswers": []string{"x", "y", "z"},
		}
	}
	return map[string]interface{}{
		"topicId":   "arrays",
		"topicName": "Arrays",
		"concepts": []map[string]interface{}{
			{"conceptId": "a", "title": "Indexing", "baseQuestions": []interface{}{q("First index?", "0")}},
			{"conceptId": "b", "title": "Slicing", "baseQuestions": []interface{}{q("What does s[1:] drop?", "The first element")}},
		},
	}
}

func TestLearningPathFlow(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w, _ := do(t, a, http.MethodPost, "/api/learning-paths", curriculum(), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	w, env := do(t, a, http.MethodGet, "/api/learning-paths/arrays?userId=u1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("fetch status = %d", w.Code)
	}
	var view struct {
		Concepts []struct {
			ConceptID string          `json:"conceptId"`
			State     string          `json:"state"`
			Progress  json.RawMessage `json:"progress"`
		} `json:"concepts"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Concepts) != 2 || view.Concepts[0].State != "active" || view.Concepts[1].State != "locked" {
		t.Fatalf("decorated concepts = %+v", view.Concepts)
	}
	if string(view.Concepts[0].Progress) != "null" {
		t.Errorf("progress = %s, want null before any attempt", view.Concepts[0].Progress)
	}

	w, _ = do(t, a, http.MethodPost, "/api/attempts", map[string]interface{}{
		"userId": "u1", "topicId": "arrays", "conceptId": "b", "isCorrect": true,
	}, "")
	if w.Code != http.StatusLocked {
		t.Errorf("locked attempt status = %d, want 423", w.Code)
	}

	w, env = do(t, a, http.MethodPost, "/api/attempts", map[string]interface{}{
		"userId": "u1", "topicId": "arrays", "conceptId": "a", "isCorrect": false,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("attempt status = %d, body = %s", w.Code, w.Body.String())
	}
	var result struct {
		Progress struct {
			CurrentDifficulty string `json:"currentDifficulty"`
			Attempts          int    `json:"attempts"`
		} `json:"progress"`
		ConceptState string `json:"conceptState"`
		NextQuestion struct {
			Difficulty string        `json:"difficulty"`
			Choices    []interface{} `json:"choices"`
		} `json:"nextQuestion"`
		Rationale *struct {
			CorrectAnswer string `json:"correctAnswer"`
		} `json:"rationale"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Progress.CurrentDifficulty != "medium" || result.Progress.Attempts != 1 {
		t.Errorf("progress = %+v", result.Progress)
	}
	if result.NextQuestion.Difficulty != "medium" || len(result.NextQuestion.Choices) != 4 {
		t.Errorf("nextQuestion = %+v", result.NextQuestion)
	}
	if result.Rationale == nil || result.Rationale.CorrectAnswer != "0" {
		t.Errorf("rationale = %+v", result.Rationale)
	}

	w, _ = do(t, a, http.MethodPost, "/api/attempts", map[string]interface{}{
		"userId": "u1", "topicId": "arrays", "conceptId": "a",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing isCorrect status = %d, want 400", w.Code)
	}

	w, _ = do(t, a, http.MethodGet, "/api/learning-paths/missing", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown topic status = %d, want 404", w.Code)
	}

	w, env = do(t, a, http.MethodGet, "/api/progress?userId=u1&topicId=arrays", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("progress status = %d", w.Code)
	}
	var list util.ListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 {
		t.Errorf("progress total = %d, want 1", list.Total)
	}

	w, _ = do(t, a, http.MethodGet, "/api/progress/export?userId=u1", nil, "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != util.MimeXLSX {
		t.Errorf("export status = %d, content type = %q", w.Code, w.Header().Get("Content-Type"))
	}

	w, env = do(t, a, http.MethodGet, "/api/learning-paths", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"conceptCount":2`) {
		t.Errorf("list status = %d, data = %s", w.Code, env.Data)
	}

	w, _ = do(t, a, http.MethodPost, "/api/learning-paths", map[string]interface{}{"topicId": "empty"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid curriculum status = %d, want 400", w.Code)
	}
}

func TestDeckAndReviewRoutes(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "capitals.csv")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("France,Paris\nJapan,Tokyo\nPeru,Lima\n"))
	mw.WriteField("name", "capitals")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/decks/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body = %s", w.Code, w.Body.String())
	}

	w, env := do(t, a, http.MethodGet, "/api/decks/capitals/review?userId=u1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("review status = %d, body = %s", w.Code, w.Body.String())
	}
	var card struct {
		Index    int    `json:"index"`
		Question string `json:"question"`
		Bucket   string `json:"bucket"`
	}
	if err := json.Unmarshal(env.Data, &card); err != nil {
		t.Fatal(err)
	}
	if card.Index != 0 || card.Question != "France" || card.Bucket != "A" {
		t.Errorf("card = %+v", card)
	}

	w, _ = do(t, a, http.MethodPost, "/api/decks/capitals/review", map[string]interface{}{"userId": "u1", "correct": true}, "")
	if w.Code != http.StatusOK {
		t.Errorf("answer status = %d", w.Code)
	}
	w, _ = do(t, a, http.MethodPost, "/api/decks/capitals/review", map[string]interface{}{"userId": "u1"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("answer without correct status = %d, want 400", w.Code)
	}
	w, _ = do(t, a, http.MethodPost, "/api/decks/capitals/review/reset", map[string]interface{}{"userId": "u1"}, "")
	if w.Code != http.StatusOK {
		t.Errorf("reset status = %d", w.Code)
	}

	w, _ = do(t, a, http.MethodPost, "/api/decks", map[string]interface{}{
		"name":       "go",
		"flashcards": []model.Flashcard{{Question: "q", Answer: "a"}},
	}, "")
	if w.Code != http.StatusCreated {
		t.Errorf("save deck status = %d", w.Code)
	}

	w, env = do(t, a, http.MethodGet, "/api/decks", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"total":2`) {
		t.Errorf("list decks status = %d, data = %s", w.Code, env.Data)
	}

	w, _ = do(t, a, http.MethodGet, "/api/decks/default", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("default deck status = %d", w.Code)
	}
	w, _ = do(t, a, http.MethodGet, "/api/decks/nope", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown deck status = %d, want 404", w.Code)
	}
}

func TestMiscRoutes(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w, _ := do(t, a, http.MethodGet, "/api/health", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}

	w, _ = do(t, a, http.MethodPost, "/api/study-events", map[string]interface{}{"event": "session_start"}, "")
	if w.Code != http.StatusCreated {
		t.Errorf("study event status = %d", w.Code)
	}
	w, env := do(t, a, http.MethodGet, "/api/study-events", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), "session_start") {
		t.Errorf("study events status = %d, data = %s", w.Code, env.Data)
	}

	w, _ = do(t, a, http.MethodPost, "/api/flashcards/generate", map[string]interface{}{"text": "Go is fun."}, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("generate without AI status = %d, want 503", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestAuthEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWT.Enabled = true
	a := newTestApp(t, cfg)

	student, err := util.GenerateJWT("s1", model.Student, cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	teacher, err := util.GenerateJWT("t1", model.Teacher, cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if w, _ := do(t, a, http.MethodPost, "/api/learning-paths", curriculum(), ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}
	if w, _ := do(t, a, http.MethodPost, "/api/learning-paths", curriculum(), student); w.Code != http.StatusForbidden {
		t.Errorf("student create status = %d, want 403", w.Code)
	}
	if w, _ := do(t, a, http.MethodPost, "/api/learning-paths", curriculum(), teacher); w.Code != http.StatusCreated {
		t.Errorf("teacher create status = %d, want 201", w.Code)
	}

	attempt := map[string]interface{}{"userId": "someone-else", "topicId": "arrays", "conceptId": "a", "isCorrect": true}
	if w, _ := do(t, a, http.MethodPost, "/api/attempts", attempt, student); w.Code != http.StatusForbidden {
		t.Errorf("student attempt for other user status = %d, want 403", w.Code)
	}
	attempt["userId"] = "s1"
	if w, _ := do(t, a, http.MethodPost, "/api/attempts", attempt, student); w.Code != http.StatusOK {
		t.Errorf("student attempt status = %d, want 200", w.Code)
	}

	// 不带 userId 时取 token 中的学习者，返回带状态的视图
	w, env := do(t, a, http.MethodGet, "/api/learning-paths/arrays", nil, student)
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"userId":"s1"`) {
		t.Errorf("fetch status = %d, data = %s", w.Code, env.Data)
	}

	if w, _ := do(t, a, http.MethodGet, "/api/health", nil, ""); w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200 without token", w.Code)
	}
}
