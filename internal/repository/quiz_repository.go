package repository

import (
	"circlemeet_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) ListQuestions() ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Order("code").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) CreateResult(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// UpdateEmailStatus 提交存档后邮件投递结果的状态流转 pending -> sent/email_send_failed
func (r *QuizRepository) UpdateEmailStatus(resultID string, status string) error {
	return r.DB.Model(&model.QuizResult{}).
		Where("id = ?", resultID).
		Update("email_status", status).Error
}

func (r *QuizRepository) FindResult(id string) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.First(&result, "id = ?", id).Error
	return &result, err
}

func (r *QuizRepository) ListResultsByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&results).Error
	return results, err
}
