package controller

import (
	"fmt"
	"io"

	"quizpath_backend/internal/model"
	"quizpath_backend/internal/service"
	"quizpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DeckController struct {
	Service *service.DeckService
}

func NewDeckController(svc *service.DeckService) *DeckController {
	return &DeckController{Service: svc}
}

type ReviewAnswerRequest struct {
	UserID  string `json:"userId"`
	Correct *bool  `json:"correct" binding:"required"`
}

type ReviewResetRequest struct {
	UserID string `json:"userId"`
}

// @Summary 卡组列表
// @Tags 卡组
// @Produce json
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/decks [get]
func (c *DeckController) ListDecks(ctx *gin.Context) {
	decks, err := c.Service.ListDecks(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: decks, Total: len(decks)})
}

// @Summary 默认卡组
// @Tags 卡组
// @Produce json
// @Success 200 {object} util.Response{data=model.Deck}
// @Router /api/decks/default [get]
func (c *DeckController) GetDefaultDeck(ctx *gin.Context) {
	deck, err := c.Service.GetDeck(ctx.Request.Context(), model.DefaultDeckName)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, deck)
}

// @Summary 获取卡组
// @Tags 卡组
// @Produce json
// @Param name path string true "卡组名称"
// @Success 200 {object} util.Response{data=model.Deck}
// @Failure 404 {object} util.Response
// @Router /api/decks/{name} [get]
func (c *DeckController) GetDeck(ctx *gin.Context) {
	deck, err := c.Service.GetDeck(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, deck)
}

// @Summary 保存卡组
// @Description 同名卡组整体覆盖
// @Tags 卡组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.DeckRequest true "卡组"
// @Success 201 {object} util.Response{data=model.Deck}
// @Failure 400 {object} util.Response
// @Router /api/decks [post]
func (c *DeckController) SaveDeck(ctx *gin.Context) {
	var req service.DeckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	deck, err := c.Service.SaveDeck(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, deck)
}

// @Summary 导入分隔文本卡组
// @Description 每行按第一个分隔符拆成问题和答案
// @Tags 卡组
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "文本文件"
// @Param name formData string false "卡组名称，缺省取文件名"
// @Param delimiter formData string false "分隔符" default(,)
// @Success 201 {object} util.Response{data=model.Deck}
// @Failure 400 {object} util.Response
// @Router /api/decks/import [post]
func (c *DeckController) ImportDeck(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	if file.Size > util.MaxDeckUploadSize {
		util.BadRequest(ctx, fmt.Sprintf("File exceeds %d bytes", util.MaxDeckUploadSize))
		return
	}

	f, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, util.MaxDeckUploadSize))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	deck, err := c.Service.ImportDelimited(ctx.Request.Context(),
		ctx.PostForm("name"),
		ctx.DefaultPostForm("delimiter", ","),
		file.Filename,
		data,
	)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, deck)
}

// @Summary 下一张复习卡片
// @Tags 复习
// @Produce json
// @Param name path string true "卡组名称"
// @Param userId query string false "学习者ID"
// @Success 200 {object} util.Response{data=service.ReviewCard}
// @Router /api/decks/{name}/review [get]
func (c *DeckController) NextCard(ctx *gin.Context) {
	userID, err := reviewUser(ctx, ctx.Query("userId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	card, err := c.Service.NextCard(ctx.Request.Context(), userID, ctx.Param("name"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, card)
}

// @Summary 提交复习结果
// @Tags 复习
// @Accept json
// @Produce json
// @Param name path string true "卡组名称"
// @Param body body ReviewAnswerRequest true "是否答对"
// @Success 200 {object} util.Response{data=service.ReviewCard}
// @Router /api/decks/{name}/review [post]
func (c *DeckController) AnswerCard(ctx *gin.Context) {
	var req ReviewAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	userID, err := reviewUser(ctx, req.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	card, err := c.Service.Answer(ctx.Request.Context(), userID, ctx.Param("name"), *req.Correct)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, card)
}

// @Summary 重置复习进度
// @Tags 复习
// @Accept json
// @Produce json
// @Param name path string true "卡组名称"
// @Param body body ReviewResetRequest false "学习者"
// @Success 200 {object} util.Response{data=service.ReviewCard}
// @Router /api/decks/{name}/review/reset [post]
func (c *DeckController) ResetReview(ctx *gin.Context) {
	var req ReviewResetRequest
	// 请求体可选
	_ = ctx.ShouldBindJSON(&req)
	if req.UserID == "" {
		req.UserID = ctx.Query("userId")
	}
	userID, err := reviewUser(ctx, req.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	card, err := c.Service.ResetReview(ctx.Request.Context(), userID, ctx.Param("name"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, card)
}

// reviewUser 未登录且未指定学习者时使用匿名会话
func reviewUser(ctx *gin.Context, requested string) (string, error) {
	userID, err := util.ResolveUserID(ctx, requested)
	if err != nil {
		return "", err
	}
	if userID == "" {
		userID = "anonymous"
	}
	return userID, nil
}
