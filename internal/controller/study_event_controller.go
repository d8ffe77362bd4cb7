package controller

import (
	"quizpath_backend/internal/service"
	"quizpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudyEventController struct {
	Service *service.StudyEventService
}

func NewStudyEventController(svc *service.StudyEventService) *StudyEventController {
	return &StudyEventController{Service: svc}
}

// @Summary 上报学习事件
// @Tags 学习事件
// @Accept json
// @Produce json
// @Param body body service.StudyEventRequest true "事件"
// @Success 201 {object} util.Response{data=model.StudyEvent}
// @Router /api/study-events [post]
func (c *StudyEventController) RecordEvent(ctx *gin.Context) {
	var req service.StudyEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.Service.Record(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// @Summary 最近的学习事件
// @Tags 学习事件
// @Produce json
// @Param limit query int false "条数，最多 100" default(100)
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/study-events [get]
func (c *StudyEventController) ListEvents(ctx *gin.Context) {
	events, err := c.Service.Recent(ctx.Request.Context(), util.ParseIntDefault(ctx.Query("limit"), service.RecentStudyEvents))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: events, Total: len(events)})
}
