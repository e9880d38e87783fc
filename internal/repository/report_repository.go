package repository

import (
	"circlemeet_backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) Create(report *model.Report) error {
	return r.DB.Create(report).Error
}

func (r *ReportRepository) ListByReporter(reporterID uint) ([]model.Report, error) {
	var reports []model.Report
	err := r.DB.Where("reporter_id = ?", reporterID).
		Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) UpdateStatus(id string, status string) error {
	return r.DB.Model(&model.Report{}).Where("id = ?", id).Update("status", status).Error
}
