package controller

import (
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type FriendshipController struct {
	FriendshipService *service.FriendshipService
}

func NewFriendshipController(friendshipService *service.FriendshipService) *FriendshipController {
	return &FriendshipController{FriendshipService: friendshipService}
}

// ListFriends godoc
// @Summary 好友列表
// @Tags 好友
// @Produce  json
// @Security BearerAuth
// @Param   q query string false "按昵称或邮箱搜索"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/friends [get]
func (c *FriendshipController) ListFriends(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	friends, err := c.FriendshipService.ListFriends(claims.UserID, ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, friends)
}

// FriendRequestBody 好友申请
type FriendRequestBody struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Message    string `json:"message"`
}

// SendRequest godoc
// @Summary 发好友申请
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body FriendRequestBody true "对方用户 ID 和附言"
// @Success 201 {object} util.Response{data=model.FriendRequest}
// @Router /api/friends/requests [post]
func (c *FriendshipController) SendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req FriendRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.FriendshipService.SendRequest(claims.UserID, req.ReceiverID, req.Message)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, created)
}

// RespondBody 处理申请
type RespondBody struct {
	Accept bool `json:"accept"`
}

// Respond godoc
// @Summary 接受或拒绝好友申请
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "申请 ID"
// @Param   body body RespondBody true "accept 为 true 表示接受"
// @Success 200 {object} util.Response
// @Router /api/friends/requests/{id} [put]
func (c *FriendshipController) Respond(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req RespondBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.FriendshipService.Respond(ctx.Param("id"), claims.UserID, req.Accept); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// PendingRequests godoc
// @Summary 待处理的好友申请
// @Tags 好友
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.FriendRequest}
// @Router /api/friends/requests [get]
func (c *FriendshipController) PendingRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	reqs, err := c.FriendshipService.PendingRequests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reqs)
}

// Unfriend godoc
// @Summary 解除好友关系
// @Tags 好友
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "好友用户 ID"
// @Success 200 {object} util.Response
// @Router /api/friends/{id} [delete]
func (c *FriendshipController) Unfriend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	friendID := util.MustParseUint(ctx.Param("id"))
	if err := c.FriendshipService.Unfriend(claims.UserID, friendID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ReconnectBody 重新联系请求
type ReconnectBody struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Note       string `json:"note"`
}

// SendReconnect godoc
// @Summary 发重新联系请求
// @Description 解除好友后想恢复联系要先经对方同意
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ReconnectBody true "对方用户 ID 和附言"
// @Success 201 {object} util.Response{data=model.ReconnectRequest}
// @Router /api/friends/reconnect [post]
func (c *FriendshipController) SendReconnect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ReconnectBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.FriendshipService.SendReconnect(claims.UserID, req.ReceiverID, req.Note)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, created)
}

// RespondReconnect godoc
// @Summary 处理重新联系请求
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "请求 ID"
// @Param   body body RespondBody true "accept 为 true 表示接受"
// @Success 200 {object} util.Response
// @Router /api/friends/reconnect/{id} [put]
func (c *FriendshipController) RespondReconnect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req RespondBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.FriendshipService.RespondReconnect(ctx.Param("id"), claims.UserID, req.Accept); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// ListReconnects godoc
// @Summary 待处理的重新联系请求
// @Tags 好友
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ReconnectRequest}
// @Router /api/friends/reconnect [get]
func (c *FriendshipController) ListReconnects(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	reqs, err := c.FriendshipService.ListReconnects(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reqs)
}
