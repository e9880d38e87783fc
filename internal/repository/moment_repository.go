package repository

import (
	"circlemeet_backend/internal/model"

	"gorm.io/gorm"
)

type MomentRepository struct {
	DB *gorm.DB
}

func NewMomentRepository(db *gorm.DB) *MomentRepository {
	return &MomentRepository{DB: db}
}

func (r *MomentRepository) Create(m *model.Moment) error {
	return r.DB.Create(m).Error
}

func (r *MomentRepository) ListByCircle(circleID string, limit, offset int) ([]model.Moment, int64, error) {
	var moments []model.Moment
	var total int64

	db := r.DB.Model(&model.Moment{}).Where("circle_id = ?", circleID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&moments).Error
	return moments, total, err
}

func (r *MomentRepository) FindByID(id string) (*model.Moment, error) {
	var m model.Moment
	err := r.DB.First(&m, "id = ?", id).Error
	return &m, err
}

func (r *MomentRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Moment{}).Error
}
