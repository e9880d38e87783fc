package controller

import (
	"bytes"
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/internal/util"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memStorage struct {
	objects map[string]string
}

func (s *memStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	s.objects[filename] = contentType
	return "/" + filename, nil
}

func (s *memStorage) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	s.objects[filename] = contentType
	return "/" + filename, nil
}

func (s *memStorage) Delete(ctx context.Context, filename string) error {
	delete(s.objects, filename)
	return nil
}

func (s *memStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *memStorage) RemovePrefix(ctx context.Context, prefix string) error {
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			delete(s.objects, name)
		}
	}
	return nil
}

func (s *memStorage) GetURL(filename string) string { return "/" + filename }

// newAccountRouter 只挂 /api/account，authed 控制是否注入登录态
func newAccountRouter(t *testing.T, db *gorm.DB, userID uint, authed bool) *gin.Engine {
	t.Helper()

	storage := &memStorage{objects: make(map[string]string)}
	deletion := service.NewAccountDeletionService(
		db,
		repository.NewUserRepository(db),
		repository.NewFriendshipRepository(db, nil),
		storage,
		500, 200,
	)
	c := NewUserController(nil, deletion)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(ctx *gin.Context) {
		util.MethodNotAllowed(ctx)
	})

	group := router.Group("/api")
	if authed {
		group.Use(func(ctx *gin.Context) {
			ctx.Set("user", &util.Claims{UserID: userID, Role: model.Member})
			ctx.Next()
		})
	}
	group.DELETE("/account", c.DeleteAccount)
	return router
}

func deleteAccount(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/api/account", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDeleteAccountEndpoint(t *testing.T) {
	db := openTestDB(t)
	user := &model.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.Profile{UserID: user.ID}).Error)

	router := newAccountRouter(t, db, user.ID, true)

	rec := deleteAccount(t, router, gin.H{"confirm": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			OK bool `json:"ok"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.OK)

	var count int64
	require.NoError(t, db.Unscoped().Model(&model.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteAccountRequiresConfirm(t *testing.T) {
	db := openTestDB(t)
	user := &model.User{Name: "Bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	router := newAccountRouter(t, db, user.ID, true)

	rec := deleteAccount(t, router, gin.H{"confirm": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = deleteAccount(t, router, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 没确认就不能动数据
	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteAccountRequiresAuth(t *testing.T) {
	db := openTestDB(t)
	router := newAccountRouter(t, db, 0, false)

	rec := deleteAccount(t, router, gin.H{"confirm": true})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteAccountWrongMethod(t *testing.T) {
	db := openTestDB(t)
	router := newAccountRouter(t, db, 1, true)

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDeleteAccountSecondRunFails(t *testing.T) {
	db := openTestDB(t)
	user := &model.User{Name: "Cara", Email: "cara@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	router := newAccountRouter(t, db, user.ID, true)

	rec := deleteAccount(t, router, gin.H{"confirm": true})
	require.Equal(t, http.StatusOK, rec.Code)

	// 账号已经没了，重复注销在身份删除一步报 500
	rec = deleteAccount(t, router, gin.H{"confirm": true})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
