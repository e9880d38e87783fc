package controller

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MomentController struct {
	MomentService *service.MomentService
}

func NewMomentController(momentService *service.MomentService) *MomentController {
	return &MomentController{MomentService: momentService}
}

// CreateMomentRequest 发动态
type CreateMomentRequest struct {
	Content      string `json:"content"`
	ImageURL     string `json:"imageUrl"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Create godoc
// @Summary 发圈子动态
// @Tags 动态
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   body body CreateMomentRequest true "动态内容"
// @Success 201 {object} util.Response{data=model.Moment}
// @Failure 403 {object} util.Response "不是圈内成员"
// @Router /api/circles/{id}/moments [post]
func (c *MomentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateMomentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m := &model.Moment{
		CircleID:     ctx.Param("id"),
		AuthorID:     claims.UserID,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
	}
	if err := c.MomentService.Create(m); err != nil {
		if errors.Is(err, util.ErrNotCircleMember) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, m)
}

// ListByCircle godoc
// @Summary 圈子动态列表
// @Tags 动态
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "圈子 ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/circles/{id}/moments [get]
func (c *MomentController) ListByCircle(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	moments, total, err := c.MomentService.ListByCircle(ctx.Param("id"), claims.UserID, limit, (page-1)*limit)
	if err != nil {
		if errors.Is(err, util.ErrNotCircleMember) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, util.PageResponse{List: moments, Total: total, Page: page, Limit: limit})
}

// Delete godoc
// @Summary 删除动态
// @Description 作者本人或圈主可删
// @Tags 动态
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "动态 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "无权删除"
// @Router /api/moments/{id} [delete]
func (c *MomentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.MomentService.Delete(ctx.Param("id"), claims.UserID); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
