package controller

import (
	"quizpath_backend/internal/service"
	"quizpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FlashcardController struct {
	AIService *service.AIService
}

func NewFlashcardController(ai *service.AIService) *FlashcardController {
	return &FlashcardController{AIService: ai}
}

// @Summary AI 生成卡片
// @Description 调用大模型从文本生成问答卡片，只做结构校验
// @Tags 卡组
// @Accept json
// @Produce json
// @Param body body service.GenerateRequest true "源文本与数量"
// @Success 200 {object} util.Response
// @Failure 502 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/flashcards/generate [post]
func (c *FlashcardController) Generate(ctx *gin.Context) {
	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cards, err := c.AIService.GenerateFlashcards(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"flashcards": cards})
}
