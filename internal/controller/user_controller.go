package controller

import (
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"circlemeet_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	UserService     *service.UserService
	DeletionService *service.AccountDeletionService
}

func NewUserController(userService *service.UserService, deletionService *service.AccountDeletionService) *UserController {
	return &UserController{UserService: userService, DeletionService: deletionService}
}

// GetProfile godoc
// @Summary 查看资料页
// @Description 不带 id 参数时返回自己的资料
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   id query int false "用户 ID"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	userID := claims.UserID
	if id := ctx.Query("id"); id != "" {
		userID = util.MustParseUint(id)
	}

	view, err := c.UserService.GetProfile(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateProfile godoc
// @Summary 更新资料页
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdate true "资料字段"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=object} "返回头像 URL"
// @Failure 400 {object} util.Response "文件缺失或类型不对"
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

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

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	// ValidateMimeType 消耗了前 512 字节，重开一次
	file.Close()
	file, err = fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// DeleteAccountRequest 注销确认
type DeleteAccountRequest struct {
	Confirm bool `json:"confirm"`
}

// DeleteAccount godoc
// @Summary 注销账号
// @Description 不可逆：删除名下圈子及其全部数据、个人记录、存储文件，最后删除登录身份。
// @Description 必须显式传 confirm=true，任何一步失败返回 500 并指出出错的集合。
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body DeleteAccountRequest true "确认标记"
// @Success 200 {object} util.Response{data=object} "注销完成"
// @Failure 400 {object} util.Response "缺少确认标记"
// @Failure 401 {object} util.Response "未登录"
// @Failure 500 {object} util.Response "某一步删除失败"
// @Router /api/account [delete]
func (c *UserController) DeleteAccount(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DeleteAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || !req.Confirm {
		util.BadRequest(ctx, util.ErrConfirmRequired.Error())
		return
	}

	if err := c.DeletionService.Run(ctx.Request.Context(), claims.UserID); err != nil {
		if errors.Is(err, util.ErrIdentityNotFound) {
			util.Error(ctx, http.StatusInternalServerError, err.Error())
			return
		}
		logger.Log.Error("账号注销失败", zap.Uint("userId", claims.UserID), zap.Error(err))
		util.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	util.Success(ctx, gin.H{"ok": true})
}
