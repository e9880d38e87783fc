package controller

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

func eventError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrEventNotFound), errors.Is(err, util.ErrCircleNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotCircleMember):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrEventFull):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateEventRequest 发起聚会
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `json:"capacity"`
}

// Create godoc
// @Summary 发起聚会
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body CreateEventRequest true "活动信息"
// @Success 201 {object} util.Response{data=model.Event}
// @Failure 403 {object} util.Response "不是圈内成员"
// @Router /api/circles/{id}/events [post]
func (c *EventController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event := &model.Event{
		CircleID:    ctx.Param("id"),
		CreatorID:   claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	}
	if err := c.EventService.Create(event); err != nil {
		eventError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// ListByCircle godoc
// @Summary 圈子的活动列表
// @Tags 活动
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   upcoming query bool false "只看未开始的"
// @Success 200 {object} util.Response{data=[]model.Event}
// @Router /api/circles/{id}/events [get]
func (c *EventController) ListByCircle(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	upcomingOnly := ctx.Query("upcoming") == "true"

	events, err := c.EventService.ListByCircle(ctx.Param("id"), claims.UserID, upcomingOnly)
	if err != nil {
		eventError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// RSVPRequest 报名
type RSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=going maybe declined"`
}

// RSVP godoc
// @Summary 活动报名
// @Description going 受容量限制，重复提交视为改签
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "活动 ID"
// @Param   body body RSVPRequest true "going/maybe/declined"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "名额已满"
// @Router /api/events/{id}/rsvp [put]
func (c *EventController) RSVP(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req RSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.EventService.RSVP(ctx.Param("id"), claims.UserID, req.Status); err != nil {
		eventError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Attendees godoc
// @Summary 报名名单
// @Tags 活动
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "活动 ID"
// @Success 200 {object} util.Response{data=[]model.EventAttendee}
// @Router /api/events/{id}/attendees [get]
func (c *EventController) Attendees(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attendees, err := c.EventService.Attendees(ctx.Param("id"), claims.UserID)
	if err != nil {
		eventError(ctx, err)
		return
	}
	util.Success(ctx, attendees)
}
