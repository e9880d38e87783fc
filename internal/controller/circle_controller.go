package controller

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CircleController struct {
	CircleService *service.CircleService
}

func NewCircleController(circleService *service.CircleService) *CircleController {
	return &CircleController{CircleService: circleService}
}

func circleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCircleNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotCircleMember), errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAlreadyMember), errors.Is(err, util.ErrCircleFull):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateCircleRequest 建圈请求
type CreateCircleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  uint   `json:"categoryId"`
	City        string `json:"city"`
	MemberLimit int    `json:"memberLimit"`
	IsPrivate   bool   `json:"isPrivate"`
}

// Create godoc
// @Summary 创建圈子
// @Description 创建者自动成为圈主和首个成员
// @Tags 圈子
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateCircleRequest true "圈子信息"
// @Success 201 {object} util.Response{data=model.Circle}
// @Router /api/circles [post]
func (c *CircleController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateCircleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	circle := &model.Circle{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		HostID:      claims.UserID,
		City:        req.City,
		MemberLimit: req.MemberLimit,
		IsPrivate:   req.IsPrivate,
	}
	if err := c.CircleService.Create(circle); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, circle)
}

// List godoc
// @Summary 圈子列表
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Param   category query int false "分类 ID"
// @Param   city query string false "城市"
// @Param   search query string false "关键字"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/circles [get]
func (c *CircleController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	categoryID := util.MustParseUint(ctx.Query("category"))
	circles, total, err := c.CircleService.List(categoryID, ctx.Query("city"), ctx.Query("search"), limit, (page-1)*limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: circles, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary 圈子详情
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Success 200 {object} util.Response{data=model.Circle}
// @Failure 404 {object} util.Response "圈子不存在"
// @Router /api/circles/{id} [get]
func (c *CircleController) Get(ctx *gin.Context) {
	circle, err := c.CircleService.Get(ctx.Param("id"))
	if err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, circle)
}

// Join godoc
// @Summary 加入圈子
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "已是成员或人数已满"
// @Router /api/circles/{id}/join [post]
func (c *CircleController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.CircleService.Join(ctx.Param("id"), claims.UserID); err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Leave godoc
// @Summary 退出圈子
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Success 200 {object} util.Response
// @Router /api/circles/{id}/leave [post]
func (c *CircleController) Leave(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.CircleService.Leave(ctx.Param("id"), claims.UserID); err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Members godoc
// @Summary 成员列表
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Success 200 {object} util.Response{data=[]model.CircleMember}
// @Router /api/circles/{id}/members [get]
func (c *CircleController) Members(ctx *gin.Context) {
	members, err := c.CircleService.Members(ctx.Param("id"))
	if err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, members)
}

// Categories godoc
// @Summary 圈子分类
// @Tags 圈子
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.CircleCategory}
// @Router /api/categories [get]
func (c *CircleController) Categories(ctx *gin.Context) {
	categories, err := c.CircleService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// CategoryRequestBody 新分类提议
type CategoryRequestBody struct {
	Name   string `json:"name" binding:"required"`
	Reason string `json:"reason"`
}

// RequestCategory godoc
// @Summary 提议新分类
// @Tags 圈子
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CategoryRequestBody true "分类名和理由"
// @Success 201 {object} util.Response{data=model.CategoryRequest}
// @Router /api/categories/requests [post]
func (c *CircleController) RequestCategory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CategoryRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.CircleService.RequestCategory(claims.UserID, req.Name, req.Reason)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// InviteRequest 邀请入圈
type InviteRequest struct {
	InviteeID uint   `json:"inviteeId" binding:"required"`
	Message   string `json:"message"`
}

// Invite godoc
// @Summary 邀请好友入圈
// @Tags 圈子
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body InviteRequest true "被邀请人"
// @Success 201 {object} util.Response{data=model.CircleInvitation}
// @Router /api/circles/{id}/invitations [post]
func (c *CircleController) Invite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	inv, err := c.CircleService.Invite(ctx.Param("id"), claims.UserID, req.InviteeID, req.Message)
	if err != nil {
		circleError(ctx, err)
		return
	}
	util.Created(ctx, inv)
}

// RespondInvitationRequest 处理邀请
type RespondInvitationRequest struct {
	Accept bool `json:"accept"`
}

// RespondInvitation godoc
// @Summary 接受或拒绝邀请
// @Tags 圈子
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "邀请 ID"
// @Param   body body RespondInvitationRequest true "accept 为 true 表示接受"
// @Success 200 {object} util.Response
// @Router /api/invitations/{id} [put]
func (c *CircleController) RespondInvitation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req RespondInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CircleService.RespondInvitation(ctx.Param("id"), claims.UserID, req.Accept); err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MyInvitations godoc
// @Summary 待处理的邀请
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CircleInvitation}
// @Router /api/invitations [get]
func (c *CircleController) MyInvitations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	invs, err := c.CircleService.ListInvitations(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, invs)
}

// AnnouncementRequest 发公告
type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}

// PublishAnnouncement godoc
// @Summary 发布公告
// @Description 仅圈主可发
// @Tags 圈子
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body AnnouncementRequest true "公告内容"
// @Success 201 {object} util.Response{data=model.Announcement}
// @Failure 403 {object} util.Response "不是圈主"
// @Router /api/circles/{id}/announcements [post]
func (c *CircleController) PublishAnnouncement(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.CircleService.PublishAnnouncement(ctx.Param("id"), claims.UserID, req.Title, req.Content, req.Pinned)
	if err != nil {
		circleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// Announcements godoc
// @Summary 公告列表
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Success 200 {object} util.Response{data=[]model.Announcement}
// @Router /api/circles/{id}/announcements [get]
func (c *CircleController) Announcements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	list, err := c.CircleService.ListAnnouncements(ctx.Param("id"), claims.UserID)
	if err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// MarkReadRequest 已读位置
type MarkReadRequest struct {
	LastReadID string `json:"lastReadId" binding:"required"`
}

// MarkRead godoc
// @Summary 更新已读位置
// @Tags 圈子
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body MarkReadRequest true "读到的最后一条消息 ID"
// @Success 200 {object} util.Response
// @Router /api/circles/{id}/read [put]
func (c *CircleController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req MarkReadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CircleService.MarkRead(ctx.Param("id"), claims.UserID, req.LastReadID); err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// PingRequest 位置上报
type PingRequest struct {
	EventID string  `json:"eventId"`
	Lat     float64 `json:"lat" binding:"required"`
	Lng     float64 `json:"lng" binding:"required"`
}

// PingLocation godoc
// @Summary 上报实时位置
// @Description 线下活动进行中成员互相找人用，只对圈内成员可见
// @Tags 圈子
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body PingRequest true "经纬度"
// @Success 200 {object} util.Response
// @Router /api/circles/{id}/pings [post]
func (c *CircleController) PingLocation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req PingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CircleService.PingLocation(ctx.Param("id"), req.EventID, claims.UserID, req.Lat, req.Lng); err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RecentPings godoc
// @Summary 最近的位置上报
// @Tags 圈子
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Success 200 {object} util.Response{data=[]model.LocationPing}
// @Router /api/circles/{id}/pings [get]
func (c *CircleController) RecentPings(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	pings, err := c.CircleService.RecentPings(ctx.Param("id"), claims.UserID)
	if err != nil {
		circleError(ctx, err)
		return
	}
	util.Success(ctx, pings)
}
