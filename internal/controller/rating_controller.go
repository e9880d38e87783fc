package controller

import (
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RatingController struct {
	RatingService *service.RatingService
}

func NewRatingController(ratingService *service.RatingService) *RatingController {
	return &RatingController{RatingService: ratingService}
}

// RateRequest 互评
type RateRequest struct {
	RateeID uint   `json:"rateeId" binding:"required"`
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Rate godoc
// @Summary 给成员打分
// @Description 1-5 分，对同一个人每天限一次
// @Tags 互评
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body RateRequest true "评分"
// @Success 201 {object} util.Response{data=model.Rating}
// @Failure 429 {object} util.Response "今天已经评过了"
// @Router /api/ratings [post]
func (c *RatingController) Rate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rating, err := c.RatingService.Rate(claims.UserID, req.RateeID, req.Score, req.Comment)
	if err != nil {
		if errors.Is(err, util.ErrDailyRatingLimit) {
			util.Error(ctx, 429, err.Error())
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, rating)
}

// ListForUser godoc
// @Summary 某人收到的评价
// @Tags 互评
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户 ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/ratings/{id} [get]
func (c *RatingController) ListForUser(ctx *gin.Context) {
	rateeID := util.MustParseUint(ctx.Param("id"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	ratings, total, err := c.RatingService.ListForUser(rateeID, limit, (page-1)*limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: ratings, Total: total, Page: page, Limit: limit})
}

// ReportRequest 举报
type ReportRequest struct {
	ReportedID uint   `json:"reportedId" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	Details    string `json:"details"`
}

// Report godoc
// @Summary 举报用户
// @Tags 互评
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ReportRequest true "举报原因"
// @Success 201 {object} util.Response{data=model.Report}
// @Router /api/reports [post]
func (c *RatingController) Report(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.RatingService.Report(claims.UserID, req.ReportedID, req.Reason, req.Details)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, report)
}

// MyReports godoc
// @Summary 我提交的举报
// @Tags 互评
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Report}
// @Router /api/reports [get]
func (c *RatingController) MyReports(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	reports, err := c.RatingService.MyReports(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}
