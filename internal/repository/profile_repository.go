package repository

import (
	"circlemeet_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// FindByUserID 先按 user_id 查，查不到再按旧表结构的 owner_id 兜底
func (r *ProfileRepository) FindByUserID(userID uint) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.Where("user_id = ?", userID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		err = r.DB.Where("owner_id = ?", userID).First(&p).Error
	}
	return &p, err
}

func (r *ProfileRepository) Upsert(p *model.Profile) error {
	var existing model.Profile
	err := r.DB.Where("user_id = ?", p.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(p).Error
	}
	if err != nil {
		return err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return r.DB.Save(p).Error
}

func (r *ProfileRepository) UpdateStyleTag(userID uint, styleTag string) error {
	return r.DB.Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Update("style_tag", styleTag).Error
}

func (r *ProfileRepository) UpdateReputation(userID uint, reputation float64) error {
	return r.DB.Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Update("reputation", reputation).Error
}
