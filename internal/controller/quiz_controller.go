package controller

import (
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Questions godoc
// @Summary 问卷题目
// @Description 社交节奏问卷的 8 道题，匿名可见
// @Tags 问卷
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.QuizQuestion}
// @Router /api/quiz/questions [get]
func (c *QuizController) Questions(ctx *gin.Context) {
	questions, err := c.QuizService.ListQuestions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// QuizSubmitRequest 问卷提交
// swagger:model QuizSubmitRequest
type QuizSubmitRequest struct {
	Answers     map[string]string   `json:"answers" binding:"required"`
	Participant service.Participant `json:"participant"`
}

// Submit godoc
// @Summary 提交问卷
// @Description 打分、存档并给运营邮箱发摘要邮件。答案不完整或取值非法返回 400。
// @Tags 问卷
// @Accept  json
// @Produce  json
// @Param   body body QuizSubmitRequest true "8 道题的答案（A/B/C）和提交人信息"
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object} "打分结果，email_status 标记邮件是否送达"
// @Failure 400 {object} util.Response "答案不完整或取值非法"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req QuizSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.QuizService.Submit(&claims.UserID, req.Answers, req.Participant)
	if err != nil {
		if errors.Is(err, util.ErrIncompleteAnswers) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"ok":             true,
		"quiz_result_id": submission.ResultID,
		"email_sent":     submission.EmailSent,
		"email_status":   submission.EmailStatus,
		"result":         submission.Result,
	})
}

// QuizPreviewRequest 实时预览
type QuizPreviewRequest struct {
	Answers map[string]string `json:"answers"`
}

// Preview godoc
// @Summary 预览打分结果
// @Description 客户端边答边看的实时预览。答案不完整时 result 为 null，不报错。
// @Tags 问卷
// @Accept  json
// @Produce  json
// @Param   body body QuizPreviewRequest true "当前已作答的题目"
// @Success 200 {object} util.Response{data=object}
// @Router /api/quiz/preview [post]
func (c *QuizController) Preview(ctx *gin.Context) {
	var req QuizPreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome := c.QuizService.Preview(req.Answers)
	util.Success(ctx, gin.H{"result": outcome})
}

// History godoc
// @Summary 我的历史结果
// @Tags 问卷
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/quiz/results [get]
func (c *QuizController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.QuizService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
