package repository

import (
	"circlemeet_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) Create(rating *model.Rating) error {
	return r.DB.Create(rating).Error
}

// CountToday 今天已经给同一个人打过几次分，redis 不可用时的限频兜底
func (r *RatingRepository) CountToday(raterID, rateeID uint) (int64, error) {
	var count int64
	dayStart := time.Now().Truncate(24 * time.Hour)
	err := r.DB.Model(&model.Rating{}).
		Where("rater_id = ? AND ratee_id = ? AND created_at >= ?", raterID, rateeID, dayStart).
		Count(&count).Error
	return count, err
}

func (r *RatingRepository) AverageForUser(rateeID uint) (float64, int64, error) {
	type row struct {
		Avg   float64
		Count int64
	}
	var res row
	err := r.DB.Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0) as avg, COUNT(*) as count").
		Where("ratee_id = ?", rateeID).
		Scan(&res).Error
	return res.Avg, res.Count, err
}

func (r *RatingRepository) ListForUser(rateeID uint, limit, offset int) ([]model.Rating, int64, error) {
	var ratings []model.Rating
	var total int64

	db := r.DB.Model(&model.Rating{}).Where("ratee_id = ?", rateeID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ratings).Error
	return ratings, total, err
}
