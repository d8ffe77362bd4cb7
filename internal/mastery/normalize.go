package mastery

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"

	"quizpath_backend/internal/model"
)

// MinIncorrectAnswers 每个难度都需要 3 个干扰项
const MinIncorrectAnswers = 3

// 以下 Raw* 为创建课程的原始输入
type RawBaseQuestion struct {
	QuestionText     string   `json:"questionText" yaml:"questionText"`
	CorrectAnswer    string   `json:"correctAnswer" yaml:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers" yaml:"incorrectAnswers"`
}

type RawConcept struct {
	ConceptID     string            `json:"conceptId" yaml:"conceptId"`
	Title         string            `json:"title" yaml:"title"`
	BaseQuestions []RawBaseQuestion `json:"baseQuestions" yaml:"baseQuestions"`
}

type RawLearningPath struct {
	TopicID     string       `json:"topicId" yaml:"topicId"`
	TopicName   string       `json:"topicName" yaml:"topicName"`
	Description string       `json:"description" yaml:"description"`
	Concepts    []RawConcept `json:"concepts" yaml:"concepts"`
}

// DefaultRules 固定的档位顺序、连胜要求与解锁策略
func DefaultRules() model.LearningRules {
	order := model.Difficulties()
	streaks := make(map[model.Difficulty]int, len(order))
	for _, d := range order {
		streaks[d] = d.RequiredStreak()
	}
	return model.LearningRules{
		TierOrder:          order,
		StreakRequirements: streaks,
		UnlockPolicy:       model.UnlockPolicySequential,
	}
}

// Normalize 校验并规范化课程输入，预计算每个概念的各难度题目（seed=0）。
// 任何不合法都返回单个 *ValidationError，不会部分成功。
func Normalize(raw RawLearningPath) (*model.LearningPath, error) {
	topicID := collapseSpace(raw.TopicID)
	if topicID == "" {
		return nil, invalid("topicId", "is required")
	}
	if len(raw.Concepts) == 0 {
		return nil, invalid("concepts", "at least one concept is required")
	}

	seen := make(map[string]bool, len(raw.Concepts))
	concepts := make([]model.Concept, 0, len(raw.Concepts))
	for i, rc := range raw.Concepts {
		field := fmt.Sprintf("concepts[%d]", i)
		conceptID := collapseSpace(rc.ConceptID)
		if conceptID == "" {
			return nil, invalid(field+".conceptId", "is required")
		}
		if seen[conceptID] {
			return nil, invalid(field+".conceptId", "duplicate concept id %q", conceptID)
		}
		seen[conceptID] = true

		if len(rc.BaseQuestions) == 0 {
			return nil, invalid(field+".baseQuestions", "at least one base question is required")
		}

		questions := make([]model.BaseQuestion, 0, len(rc.BaseQuestions))
		for j, rq := range rc.BaseQuestions {
			q, err := normalizeBaseQuestion(rq, fmt.Sprintf("%s.baseQuestions[%d]", field, j))
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
		}

		title := collapseSpace(rc.Title)
		if title == "" {
			title = conceptID
		}

		concepts = append(concepts, model.Concept{
			ConceptID:     conceptID,
			Title:         title,
			Order:         i + 1,
			BaseQuestions: questions,
			Modes:         BuildModes(questions),
		})
	}

	topicName := collapseSpace(raw.TopicName)
	if topicName == "" {
		topicName = topicID
	}

	path := &model.LearningPath{
		TopicID:     topicID,
		TopicName:   topicName,
		Description: strings.TrimSpace(raw.Description),
		Concepts:    concepts,
		Rules:       datatypes.NewJSONType(DefaultRules()),
	}
	return path, nil
}

// BuildModes 对每道题、每个难度用 seed=0 生成变体
func BuildModes(questions []model.BaseQuestion) map[model.Difficulty][]model.Variant {
	modes := make(map[model.Difficulty][]model.Variant, 3)
	for _, d := range model.Difficulties() {
		variants := make([]model.Variant, 0, len(questions))
		for _, q := range questions {
			variants = append(variants, BuildVariant(q, d, 0))
		}
		modes[d] = variants
	}
	return modes
}

// NormalizeQuestion 折叠空白、去除空值与重复干扰项，不做校验
func NormalizeQuestion(q model.BaseQuestion) model.BaseQuestion {
	out := model.BaseQuestion{
		PromptText:    collapseSpace(q.PromptText),
		CorrectAnswer: collapseSpace(q.CorrectAnswer),
	}
	seen := make(map[string]bool, len(q.IncorrectAnswers))
	for _, a := range q.IncorrectAnswers {
		a = collapseSpace(a)
		if a == "" || a == out.CorrectAnswer || seen[a] {
			continue
		}
		seen[a] = true
		out.IncorrectAnswers = append(out.IncorrectAnswers, a)
	}
	return out
}

func normalizeBaseQuestion(rq RawBaseQuestion, field string) (model.BaseQuestion, error) {
	q := NormalizeQuestion(model.BaseQuestion{
		PromptText:       rq.QuestionText,
		CorrectAnswer:    rq.CorrectAnswer,
		IncorrectAnswers: rq.IncorrectAnswers,
	})
	if q.PromptText == "" {
		return q, invalid(field+".questionText", "is required")
	}
	if q.CorrectAnswer == "" {
		return q, invalid(field+".correctAnswer", "is required")
	}
	if len(q.IncorrectAnswers) < MinIncorrectAnswers {
		return q, invalid(field+".incorrectAnswers", "need at least %d distinct answers, got %d", MinIncorrectAnswers, len(q.IncorrectAnswers))
	}
	return q, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
