package mastery

import "quizpath_backend/internal/model"

// NewProgressRecord 首次作答时的初始状态
func NewProgressRecord(userID, topicID, conceptID string) model.ProgressRecord {
	return model.ProgressRecord{
		UserID:            userID,
		TopicID:           topicID,
		ConceptID:         conceptID,
		CurrentDifficulty: model.DifficultyMedium,
	}
}

// Usable 存储中字段缺失或越界的记录视为不存在
func Usable(r model.ProgressRecord) bool {
	return r.CurrentDifficulty.IsValid() && r.Streak >= 0 && r.Attempts >= 0 &&
		r.UserID != "" && r.TopicID != "" && r.ConceptID != ""
}

// ApplyAttempt 应用一次作答结果。
// 答对：连胜+1，达到当前档位要求则标记通过、晋级并清零连胜；
// 答错：连胜清零并降一档。通过标记只增不减，档位是游标。
func ApplyAttempt(r model.ProgressRecord, correct bool) model.ProgressRecord {
	if !r.CurrentDifficulty.IsValid() {
		r.CurrentDifficulty = model.DifficultyMedium
	}
	if r.Streak < 0 {
		r.Streak = 0
	}

	r.Attempts++

	if !correct {
		r.Streak = 0
		r.CurrentDifficulty = r.CurrentDifficulty.Prev()
		return r
	}

	r.Streak++
	if r.Streak >= r.CurrentDifficulty.RequiredStreak() {
		r.MarkPassed(r.CurrentDifficulty)
		r.CurrentDifficulty = r.CurrentDifficulty.Next()
		r.Streak = 0
	}
	return r
}
