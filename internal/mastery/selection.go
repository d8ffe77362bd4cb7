package mastery

import (
	"fmt"

	"quizpath_backend/internal/model"
)

// RemediationSeedOffset 讲解题 seed 相对下一题 seed 的固定偏移，模板数为 3 时措辞必然不同
const RemediationSeedOffset = 1

// Remediation 答错后的讲解材料
type Remediation struct {
	Difficulty        model.Difficulty `json:"difficulty"`
	CorrectAnswer     string           `json:"correctAnswer"`
	ReferenceQuestion string           `json:"referenceQuestion"`
	Explanation       string           `json:"explanation"`
}

// NextQuestion 按新档位从预计算的 modes 取题（attempts mod 题数），
// 选项布局沿用缓存，题干措辞用 attempts 作为 seed 重新生成。
func NextQuestion(c model.Concept, d model.Difficulty, attempts int) model.Variant {
	variants := c.Modes[d]
	if len(variants) == 0 {
		if len(c.BaseQuestions) == 0 {
			return model.Variant{}
		}
		return BuildVariant(c.BaseQuestions[floorMod(attempts, len(c.BaseQuestions))], d, attempts)
	}

	v := variants[floorMod(attempts, len(variants))]
	v.Choices = append([]model.Choice(nil), v.Choices...)
	v.Prompt = Reword(v.Base.PromptText, d, attempts)
	return v
}

// Remediate 针对刚刚答错的那道题（上一次出题用的是 attempts-1）生成讲解，
// 参考题按降级后的档位、以 attempts+RemediationSeedOffset 为 seed 改写。
func Remediate(c model.Concept, d model.Difficulty, attempts int) *Remediation {
	if len(c.BaseQuestions) == 0 {
		return nil
	}
	base := NormalizeQuestion(c.BaseQuestions[floorMod(attempts-1, len(c.BaseQuestions))])
	return &Remediation{
		Difficulty:        d,
		CorrectAnswer:     base.CorrectAnswer,
		ReferenceQuestion: Reword(base.PromptText, d, attempts+RemediationSeedOffset),
		Explanation:       fmt.Sprintf("The correct answer is %q. Review %q before trying the next question.", base.CorrectAnswer, c.Title),
	}
}
