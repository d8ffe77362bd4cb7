package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quizpath_backend/internal/config"
	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/model"
	"quizpath_backend/internal/util"
	"quizpath_backend/pkg/logger"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	DefaultFlashcardCount = 10
	MaxFlashcardCount     = 50
	maxSourceTextLength   = 20000
)

// flashcardSchema 只做结构校验，不校验内容是否正确
const flashcardSchema = `{
  "type": "object",
  "required": ["flashcards"],
  "properties": {
    "flashcards": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "answer"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "answer": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

type AIService struct {
	config config.AIConfig
	client *http.Client
	schema *gojsonschema.Schema
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(flashcardSchema))
	if err != nil {
		// schema 是常量，解析失败属于编码错误
		panic(err)
	}
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		schema: schema,
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type GenerateRequest struct {
	Text  string `json:"text" binding:"required"`
	Count int    `json:"count"`
}

func (s *AIService) Enabled() bool {
	return s.config.BaseURL != "" && s.config.APIKey != ""
}

// GenerateFlashcards 调用兼容 OpenAI 的接口从文本生成卡片，任何失败都包装为 ErrGenerationFailed
func (s *AIService) GenerateFlashcards(ctx context.Context, req GenerateRequest) ([]model.Flashcard, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &mastery.ValidationError{Field: "text", Reason: "is required"}
	}
	if len(text) > maxSourceTextLength {
		text = text[:maxSourceTextLength]
	}
	count := req.Count
	if count <= 0 {
		count = DefaultFlashcardCount
	}
	if count > MaxFlashcardCount {
		count = MaxFlashcardCount
	}
	if !s.Enabled() {
		return nil, util.ErrGeneratorDisabled
	}

	content, err := s.complete(ctx, []AIChatMessage{
		{
			Role: "system",
			Content: "You create study flashcards. Reply with JSON only, shaped as " +
				`{"flashcards":[{"question":"...","answer":"..."}]}` + ". Keep answers short and factual.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Create %d flashcards from the following text:\n\n%s", count, text),
		},
	})
	if err != nil {
		logger.Log.Warn("Flashcard generation request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
	}

	cards, err := s.parseFlashcards(content)
	if err != nil {
		logger.Log.Warn("Flashcard generation returned unusable output", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
	}
	if len(cards) > count {
		cards = cards[:count]
	}
	return cards, nil
}

func (s *AIService) complete(ctx context.Context, messages []AIChatMessage) (string, error) {
	body, err := json.Marshal(ChatCompletionRequest{
		Model:          s.config.Model,
		Messages:       messages,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, truncate(string(data), 300))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", fmt.Errorf("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("AI API returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func (s *AIService) parseFlashcards(content string) ([]model.Flashcard, error) {
	content = stripCodeFence(content)

	result, err := s.schema.Validate(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, fmt.Errorf("reply is not JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("reply does not match schema: %s", strings.Join(msgs, "; "))
	}

	var payload struct {
		Flashcards []model.Flashcard `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, err
	}
	return cleanFlashcards(payload.Flashcards), nil
}

// stripCodeFence 有些模型会把 JSON 包在 ``` 代码块里
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
