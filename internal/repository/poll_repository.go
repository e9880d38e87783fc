package repository

import (
	"circlemeet_backend/internal/model"

	"gorm.io/gorm"
)

type PollRepository struct {
	DB *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{DB: db}
}

// CreateWithOptions 投票和候选项放同一个事务写入
func (r *PollRepository) CreateWithOptions(poll *model.Poll, options []model.PollOption) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(poll).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].PollID = poll.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PollRepository) FindByID(id string) (*model.Poll, error) {
	var poll model.Poll
	err := r.DB.Preload("Options").First(&poll, "id = ?", id).Error
	return &poll, err
}

func (r *PollRepository) ListByCircle(circleID string) ([]model.Poll, error) {
	var polls []model.Poll
	err := r.DB.Preload("Options").
		Where("circle_id = ?", circleID).
		Order("created_at DESC").Find(&polls).Error
	return polls, err
}

// Vote 同一投票里重复投视为改票
func (r *PollRepository) Vote(pollID, optionID string, userID uint) error {
	var existing model.PollVote
	err := r.DB.Where("poll_id = ? AND user_id = ?", pollID, userID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.PollVote{
			PollID:   pollID,
			OptionID: optionID,
			UserID:   userID,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.DB.Model(&model.PollVote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Update("option_id", optionID).Error
}

func (r *PollRepository) Close(pollID string) error {
	return r.DB.Model(&model.Poll{}).Where("id = ?", pollID).
		Update("status", "closed").Error
}

// CountVotes 每个候选项的票数
func (r *PollRepository) CountVotes(pollID string) (map[string]int64, error) {
	type row struct {
		OptionID string
		Count    int64
	}
	var rows []row
	err := r.DB.Model(&model.PollVote{}).
		Select("option_id, COUNT(*) as count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.OptionID] = r.Count
	}
	return counts, nil
}
