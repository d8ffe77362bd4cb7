// Package mastery 实现概念掌握度的推进引擎：题目变体、课程规范化、难度状态机与解锁视图。
// 包内函数均为纯函数，不做任何 I/O。
package mastery

import (
	"fmt"

	"quizpath_backend/internal/model"
)

const (
	RoleCorrect   = "correct"
	RoleClose     = "close"
	RolePlausible = "plausible"
	RoleObvious   = "obvious"
	RoleSimilar   = "similar"
	RoleParallel  = "parallel"
	RoleEdge      = "edge"
	RoleNuanced   = "nuanced"
	RoleAmbiguous = "ambiguous"
	RoleBroad     = "broad"
)

var rewordTemplates = map[model.Difficulty][]string{
	model.DifficultyMedium: {
		"Recall check: %s",
		"Quick review: %s",
		"From memory: %s",
	},
	model.DifficultyExpert: {
		"Apply and differentiate: %s",
		"Compare the options and apply: %s",
		"Work it through carefully: %s",
	},
	model.DifficultyProfessor: {
		"Disambiguate precisely: %s",
		"Defend the single exact answer: %s",
		"Resolve the subtle distinction: %s",
	},
}

// 每个难度固定的选项排列，越难正确答案越靠后
var choiceLayouts = map[model.Difficulty][]string{
	model.DifficultyMedium:    {RoleCorrect, RoleClose, RolePlausible, RoleObvious},
	model.DifficultyExpert:    {RoleSimilar, RoleCorrect, RoleParallel, RoleEdge},
	model.DifficultyProfessor: {RoleNuanced, RoleAmbiguous, RoleCorrect, RoleBroad},
}

// TemplateCount 每个难度的改写模板数量
func TemplateCount(d model.Difficulty) int {
	return len(rewordTemplates[d])
}

// Reword 按 seed 轮换改写模板；题干为空时返回空串
func Reword(prompt string, d model.Difficulty, seed int) string {
	prompt = collapseSpace(prompt)
	if prompt == "" {
		return ""
	}
	templates := rewordTemplates[d]
	if len(templates) == 0 {
		return prompt
	}
	return fmt.Sprintf(templates[floorMod(seed, len(templates))], prompt)
}

// BuildVariant 生成指定难度的题目变体。题干为空或难度非法时返回零值，调用方需视为无效。
// 干扰项不足 3 个时按 index mod count 循环补齐。
func BuildVariant(q model.BaseQuestion, d model.Difficulty, seed int) model.Variant {
	if !d.IsValid() {
		return model.Variant{}
	}
	base := NormalizeQuestion(q)
	prompt := Reword(base.PromptText, d, seed)
	if prompt == "" {
		return model.Variant{}
	}

	layout := choiceLayouts[d]
	choices := make([]model.Choice, 0, len(layout))
	next := 0
	for _, role := range layout {
		if role == RoleCorrect {
			choices = append(choices, model.Choice{Text: base.CorrectAnswer, IsCorrect: true, DistractorRole: RoleCorrect})
			continue
		}
		if len(base.IncorrectAnswers) == 0 {
			continue
		}
		choices = append(choices, model.Choice{
			Text:           base.IncorrectAnswers[next%len(base.IncorrectAnswers)],
			DistractorRole: role,
		})
		next++
	}

	return model.Variant{
		Difficulty: d,
		Prompt:     prompt,
		Choices:    choices,
		Base:       base,
	}
}

func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
