package controller

import (
	"bytes"
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"circlemeet_backend/pkg/database"
	"circlemeet_backend/pkg/logger"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type okMailer struct{}

func (okMailer) Send(to, subject, htmlBody string) error { return nil }

type downMailer struct{}

func (downMailer) Send(to, subject, htmlBody string) error { return errors.New("smtp down") }

// newQuizRouter 预览公开注册，提交按 authed 决定是否注入登录态
func newQuizRouter(t *testing.T, mailer service.Mailer, authed bool) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	svc := service.NewQuizService(repository.NewQuizRepository(db), repository.NewProfileRepository(db), mailer, "ops@circlemeet.local")
	c := NewQuizController(svc)

	router := gin.New()
	router.POST("/api/quiz/preview", c.Preview)

	submit := router.Group("/api/quiz")
	if authed {
		submit.Use(func(ctx *gin.Context) {
			ctx.Set("user", &util.Claims{UserID: 7, Role: model.Member})
			ctx.Next()
		})
	}
	submit.POST("/submit", c.Submit)
	return router, db
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func fullAnswers(choice string) map[string]string {
	answers := make(map[string]string, 8)
	for _, code := range []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7", "Q8"} {
		answers[code] = choice
	}
	return answers
}

func TestQuizSubmitEndpoint(t *testing.T) {
	router, _ := newQuizRouter(t, okMailer{}, true)

	rec := postJSON(t, router, "/api/quiz/submit", gin.H{
		"answers":     fullAnswers("C"),
		"participant": gin.H{"name": "Ann", "email": "ann@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			OK           bool   `json:"ok"`
			QuizResultID string `json:"quiz_result_id"`
			EmailSent    bool   `json:"email_sent"`
			EmailStatus  string `json:"email_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.OK)
	assert.NotEmpty(t, resp.Data.QuizResultID)
	assert.True(t, resp.Data.EmailSent)
	assert.Equal(t, "sent", resp.Data.EmailStatus)
}

func TestQuizSubmitEndpointEmailFailure(t *testing.T) {
	router, _ := newQuizRouter(t, downMailer{}, true)

	rec := postJSON(t, router, "/api/quiz/submit", gin.H{
		"answers":     fullAnswers("B"),
		"participant": gin.H{"name": "Ben", "email": "ben@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			OK          bool   `json:"ok"`
			EmailSent   bool   `json:"email_sent"`
			EmailStatus string `json:"email_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.OK)
	assert.False(t, resp.Data.EmailSent)
	assert.Equal(t, "email_send_failed", resp.Data.EmailStatus)
}

func TestQuizSubmitEndpointRequiresAuth(t *testing.T) {
	router, db := newQuizRouter(t, okMailer{}, false)

	// 没带凭证的提交必须拒绝，不能落库
	rec := postJSON(t, router, "/api/quiz/submit", gin.H{
		"answers":     fullAnswers("A"),
		"participant": gin.H{"name": "Eve", "email": "eve@example.com"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.QuizResult{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestQuizSubmitEndpointRejectsIncomplete(t *testing.T) {
	router, _ := newQuizRouter(t, okMailer{}, true)

	rec := postJSON(t, router, "/api/quiz/submit", gin.H{
		"answers": gin.H{"Q1": "A"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/api/quiz/submit", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizPreviewEndpoint(t *testing.T) {
	router, _ := newQuizRouter(t, okMailer{}, false)

	// 不完整：返回 200，result 为 null
	rec := postJSON(t, router, "/api/quiz/preview", gin.H{"answers": gin.H{"Q1": "A"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Result *struct {
				StyleTag string `json:"styleTag"`
			} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.Result)

	// 完整：返回打分结果
	rec = postJSON(t, router, "/api/quiz/preview", gin.H{"answers": fullAnswers("A")})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Result)
	assert.Equal(t, "Deep Connector", resp.Data.Result.StyleTag)
}
