package controller

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

type PollController struct {
	PollService *service.PollService
}

func NewPollController(pollService *service.PollService) *PollController {
	return &PollController{PollService: pollService}
}

func pollError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPollNotFound), errors.Is(err, util.ErrCircleNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotCircleMember), errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrPollClosed):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// PollOptionInput 候选时间段
type PollOptionInput struct {
	Label    string    `json:"label"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

// CreatePollRequest 发起投票
type CreatePollRequest struct {
	Question string            `json:"question" binding:"required"`
	ClosesAt *time.Time        `json:"closesAt"`
	Options  []PollOptionInput `json:"options" binding:"required,min=2"`
}

// Create godoc
// @Summary 发起时间投票
// @Tags 投票
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body CreatePollRequest true "问题和至少两个候选时段"
// @Success 201 {object} util.Response{data=model.Poll}
// @Router /api/circles/{id}/polls [post]
func (c *PollController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreatePollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	poll := &model.Poll{
		CircleID:  ctx.Param("id"),
		CreatorID: claims.UserID,
		Question:  req.Question,
		Status:    "open",
		ClosesAt:  req.ClosesAt,
	}
	options := make([]model.PollOption, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, model.PollOption{
			Label:    o.Label,
			StartsAt: o.StartsAt,
			EndsAt:   o.EndsAt,
		})
	}

	if err := c.PollService.Create(poll, options); err != nil {
		pollError(ctx, err)
		return
	}
	util.Created(ctx, poll)
}

// ListByCircle godoc
// @Summary 圈子的投票列表
// @Tags 投票
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Success 200 {object} util.Response{data=[]model.Poll}
// @Router /api/circles/{id}/polls [get]
func (c *PollController) ListByCircle(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	polls, err := c.PollService.ListByCircle(ctx.Param("id"), claims.UserID)
	if err != nil {
		pollError(ctx, err)
		return
	}
	util.Success(ctx, polls)
}

// VoteRequest 投票
type VoteRequest struct {
	OptionID string `json:"optionId" binding:"required"`
}

// Vote godoc
// @Summary 投票
// @Description 每人一票，重复提交视为改票。投已关闭的票返回 400。
// @Tags 投票
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "投票 ID"
// @Param   body body VoteRequest true "选中的时段"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "投票已关闭"
// @Router /api/polls/{id}/vote [put]
func (c *PollController) Vote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.PollService.Vote(ctx.Param("id"), req.OptionID, claims.UserID); err != nil {
		pollError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Close godoc
// @Summary 关闭投票
// @Description 仅发起人可关闭，关闭后圈内成员收到通知
// @Tags 投票
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "投票 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "不是发起人"
// @Router /api/polls/{id}/close [post]
func (c *PollController) Close(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.PollService.Close(ctx.Param("id"), claims.UserID); err != nil {
		pollError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Results godoc
// @Summary 投票结果
// @Tags 投票
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "投票 ID"
// @Success 200 {object} util.Response{data=object} "各时段得票数"
// @Router /api/polls/{id}/results [get]
func (c *PollController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	counts, err := c.PollService.Results(ctx.Param("id"), claims.UserID)
	if err != nil {
		pollError(ctx, err)
		return
	}
	util.Success(ctx, counts)
}
