package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"quizpath_backend/internal/mastery"
	"quizpath_backend/internal/service"
	"quizpath_backend/internal/util"
	"quizpath_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(svc *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: svc}
}

// @Summary 创建或覆盖课程
// @Description 规范化课程输入，并预计算每个概念在三个难度下的题目，同 topicId 整体覆盖
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body mastery.RawLearningPath true "课程内容"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response
// @Router /api/learning-paths [post]
func (c *LearningPathController) CreateLearningPath(ctx *gin.Context) {
	var req mastery.RawLearningPath
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.Service.CreateLearningPath(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, path)
}

// @Summary 课程列表
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/learning-paths [get]
func (c *LearningPathController) ListLearningPaths(ctx *gin.Context) {
	items, err := c.Service.ListLearningPaths(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: items, Total: len(items)})
}

// @Summary 获取课程
// @Description 指定 userId 时返回带解锁状态的学习者视图，否则返回原始课程
// @Tags 课程
// @Produce json
// @Param topicId path string true "主题ID"
// @Param userId query string false "学习者ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning-paths/{topicId} [get]
func (c *LearningPathController) GetLearningPath(ctx *gin.Context) {
	topicID := ctx.Param("topicId")

	userID, err := util.ResolveUserID(ctx, ctx.Query("userId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if userID == "" {
		path, err := c.Service.GetLearningPath(ctx.Request.Context(), topicID)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		util.Success(ctx, path)
		return
	}

	view, err := c.Service.DecorateLearningPath(ctx.Request.Context(), topicID, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 提交作答
// @Description 应用难度状态机并返回下一题；答错时附带讲解。前置概念未掌握时返回 423
// @Tags 学习进度
// @Accept json
// @Produce json
// @Param body body service.AttemptRequest true "作答结果"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 404 {object} util.Response
// @Failure 423 {object} util.Response
// @Router /api/attempts [post]
func (c *LearningPathController) RecordAttempt(ctx *gin.Context) {
	var req service.AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, err := util.ResolveUserID(ctx, req.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	req.UserID = userID

	result, err := c.Service.RecordAttempt(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 学习记录
// @Tags 学习进度
// @Produce json
// @Param userId query string false "学习者ID"
// @Param topicId query string false "主题ID"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/progress [get]
func (c *LearningPathController) ListProgress(ctx *gin.Context) {
	userID, err := util.ResolveUserID(ctx, ctx.Query("userId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	records, err := c.Service.ListProgress(ctx.Request.Context(), userID, ctx.Query("topicId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: records, Total: len(records)})
}

// @Summary 导出学习记录
// @Tags 学习进度
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param userId query string false "学习者ID"
// @Param topicId query string false "主题ID"
// @Success 200 {file} file
// @Router /api/progress/export [get]
func (c *LearningPathController) ExportProgress(ctx *gin.Context) {
	userID, err := util.ResolveUserID(ctx, ctx.Query("userId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	topicID := ctx.Query("topicId")

	var buf bytes.Buffer
	rows, err := c.Service.ExportProgress(ctx.Request.Context(), &buf, userID, topicID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	filename := fmt.Sprintf("progress_%s.xlsx", time.Now().Format("20060102150405"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, util.MimeXLSX, buf.Bytes())

	logger.Log.Info("Progress exported",
		zap.String("user_id", userID),
		zap.String("topic_id", topicID),
		zap.Int("rows", rows),
	)
}
