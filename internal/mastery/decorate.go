package mastery

import (
	"fmt"
	"sort"
	"time"

	"quizpath_backend/internal/model"
)

type ConceptState string

const (
	StateLocked    ConceptState = "locked"
	StateActive    ConceptState = "active"
	StateCompleted ConceptState = "completed"
	StateMastered  ConceptState = "mastered"
)

type DecoratedConcept struct {
	model.Concept
	State             ConceptState          `json:"state"`
	CurrentDifficulty model.Difficulty      `json:"currentDifficulty"`
	Attempts          int                   `json:"attempts"`
	Progress          *model.ProgressRecord `json:"progress"`
}

// DecoratedPath 面向某个学习者的只读视图，每次请求重新计算
type DecoratedPath struct {
	TopicID     string              `json:"topicId"`
	TopicName   string              `json:"topicName"`
	Description string              `json:"description"`
	Rules       model.LearningRules `json:"rules"`
	CreatedAt   time.Time           `json:"createdAt"`
	UserID      string              `json:"userId,omitempty"`
	Concepts    []DecoratedConcept  `json:"concepts"`
}

// ConceptState 返回指定概念的状态
func (p DecoratedPath) ConceptState(conceptID string) (ConceptState, bool) {
	for _, c := range p.Concepts {
		if c.ConceptID == conceptID {
			return c.State, true
		}
	}
	return "", false
}

// OrderedConcepts 按 order 升序返回概念副本
func OrderedConcepts(path *model.LearningPath) []model.Concept {
	concepts := make([]model.Concept, len(path.Concepts))
	copy(concepts, path.Concepts)
	sort.SliceStable(concepts, func(i, j int) bool {
		return concepts[i].Order < concepts[j].Order
	})
	return concepts
}

// IndexRecords 过滤出该主题（及用户，如果给出）的可用记录，按 conceptId 索引
func IndexRecords(records []model.ProgressRecord, topicID, userID string) map[string]model.ProgressRecord {
	byConcept := make(map[string]model.ProgressRecord)
	for _, r := range records {
		if r.TopicID != topicID {
			continue
		}
		if userID != "" && r.UserID != userID {
			continue
		}
		if !Usable(r) {
			continue
		}
		byConcept[r.ConceptID] = r
	}
	return byConcept
}

// Decorate 结合学习记录计算每个概念的解锁状态。
// 只有 mastered 才能解锁下一个概念，一旦出现 locked，后续全部 locked。
func Decorate(path *model.LearningPath, records []model.ProgressRecord, userID string) DecoratedPath {
	byConcept := IndexRecords(records, path.TopicID, userID)
	concepts := OrderedConcepts(path)

	out := DecoratedPath{
		TopicID:     path.TopicID,
		TopicName:   path.TopicName,
		Description: path.Description,
		Rules:       path.Rules.Data(),
		CreatedAt:   path.CreatedAt,
		UserID:      userID,
		Concepts:    make([]DecoratedConcept, 0, len(concepts)),
	}

	previousMastered := true
	for _, c := range concepts {
		dc := DecoratedConcept{
			Concept:           c,
			CurrentDifficulty: model.DifficultyMedium,
		}
		rec, ok := byConcept[c.ConceptID]
		if ok {
			r := rec
			dc.Progress = &r
			dc.CurrentDifficulty = rec.CurrentDifficulty
			dc.Attempts = rec.Attempts
		}

		switch {
		case !previousMastered:
			dc.State = StateLocked
		case ok && rec.ProfessorPassed:
			dc.State = StateMastered
		case ok && rec.ExpertPassed:
			dc.State = StateCompleted
			previousMastered = false
		default:
			dc.State = StateActive
			previousMastered = false
		}

		out.Concepts = append(out.Concepts, dc)
	}
	return out
}

// CheckUnlocked 写路径上的解锁校验：非首个概念要求前一个概念 professorPassed
func CheckUnlocked(concepts []model.Concept, index int, byConcept map[string]model.ProgressRecord) error {
	if index <= 0 {
		return nil
	}
	prev := concepts[index-1]
	if rec, ok := byConcept[prev.ConceptID]; ok && rec.ProfessorPassed {
		return nil
	}
	return fmt.Errorf("concept %q requires %q to be mastered: %w", concepts[index].ConceptID, prev.ConceptID, ErrLocked)
}
