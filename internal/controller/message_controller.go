package controller

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

func messageError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNotCircleMember):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNotFriends):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// SendMessageRequest 发消息
type SendMessageRequest struct {
	Type          string `json:"type"`
	Content       string `json:"content"`
	AttachmentURL string `json:"attachmentUrl"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	ClientMsgID   string `json:"clientMsgId"`
}

// Send godoc
// @Summary 发圈子消息
// @Description 带 clientMsgId 时重发会去重
// @Tags 消息
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.Message}
// @Failure 403 {object} util.Response "不是圈内成员"
// @Router /api/circles/{id}/messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = "text"
	}

	msg := &model.Message{
		CircleID:      ctx.Param("id"),
		SenderID:      &claims.UserID,
		Type:          req.Type,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
		ThumbnailURL:  req.ThumbnailURL,
		ClientMsgID:   req.ClientMsgID,
	}
	if err := c.MessageService.Send(msg); err != nil {
		messageError(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

// List godoc
// @Summary 聊天历史
// @Description 按时间倒序分页，before 传上一页最旧一条的时间
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   before query string false "RFC3339 时间戳"
// @Param   limit query int false "条数，默认 50"
// @Success 200 {object} util.Response{data=[]model.Message}
// @Router /api/circles/{id}/messages [get]
func (c *MessageController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var before time.Time
	if v := ctx.Query("before"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			util.BadRequest(ctx, "before 参数格式错误")
			return
		}
		before = parsed
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	msgs, err := c.MessageService.ListByCircle(ctx.Param("id"), claims.UserID, before, limit)
	if err != nil {
		messageError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}

// UploadAttachment godoc
// @Summary 上传聊天附件
// @Description 附件存到圈子目录，视频自动生成缩略图
// @Tags 消息
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   file formData file true "附件"
// @Success 200 {object} util.Response{data=object} "附件和缩略图 URL"
// @Router /api/circles/{id}/attachments [post]
func (c *MessageController) UploadAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	attachmentURL, thumbnailURL, err := c.MessageService.UploadAttachment(
		ctx.Request.Context(), ctx.Param("id"), claims.UserID, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		messageError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"attachmentUrl": attachmentURL,
		"thumbnailUrl":  thumbnailURL,
	})
}

// ReactionRequest 表情回应
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// React godoc
// @Summary 给消息加表情回应
// @Tags 消息
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "消息 ID"
// @Param   body body ReactionRequest true "表情"
// @Success 200 {object} util.Response
// @Router /api/messages/{id}/reactions [post]
func (c *MessageController) React(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ReactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MessageService.React(ctx.Param("id"), claims.UserID, req.Emoji); err != nil {
		messageError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RemoveReaction godoc
// @Summary 撤销表情回应
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "消息 ID"
// @Param   emoji query string true "表情"
// @Success 200 {object} util.Response
// @Router /api/messages/{id}/reactions [delete]
func (c *MessageController) RemoveReaction(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	emoji := ctx.Query("emoji")
	if emoji == "" {
		util.BadRequest(ctx, "缺少 emoji 参数")
		return
	}

	if err := c.MessageService.RemoveReaction(ctx.Param("id"), claims.UserID, emoji); err != nil {
		messageError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MarkMessageRead godoc
// @Summary 标记单条消息已读
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "消息 ID"
// @Success 200 {object} util.Response
// @Router /api/messages/{id}/read [put]
func (c *MessageController) MarkMessageRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.MessageService.MarkRead(ctx.Param("id"), claims.UserID); err != nil {
		messageError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SendDMRequest 私信
type SendDMRequest struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Type       string `json:"type"`
	Content    string `json:"content" binding:"required"`
}

// SendDM godoc
// @Summary 发私信
// @Description 只能发给好友
// @Tags 消息
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SendDMRequest true "私信内容"
// @Success 201 {object} util.Response{data=model.DirectMessage}
// @Failure 403 {object} util.Response "不是好友"
// @Router /api/dms [post]
func (c *MessageController) SendDM(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SendDMRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = "text"
	}

	dm := &model.DirectMessage{
		SenderID:   claims.UserID,
		ReceiverID: req.ReceiverID,
		Type:       req.Type,
		Content:    req.Content,
	}
	if err := c.MessageService.SendDM(dm); err != nil {
		messageError(ctx, err)
		return
	}
	util.Created(ctx, dm)
}

// ListDMs godoc
// @Summary 私信历史
// @Description 拉取和某个好友的私信记录，对方发来的自动标记已读
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   peer query int true "对方用户 ID"
// @Param   limit query int false "条数"
// @Success 200 {object} util.Response{data=[]model.DirectMessage}
// @Router /api/dms [get]
func (c *MessageController) ListDMs(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	peerID := util.MustParseUint(ctx.Query("peer"))
	if peerID == 0 {
		util.BadRequest(ctx, "缺少 peer 参数")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	dms, err := c.MessageService.ListDMs(claims.UserID, peerID, limit)
	if err != nil {
		messageError(ctx, err)
		return
	}
	util.Success(ctx, dms)
}
