package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type PollService struct {
	PollRepo   *repository.PollRepository
	CircleRepo *repository.CircleRepository
	NotifyRepo *repository.NotificationRepository
}

func NewPollService(pollRepo *repository.PollRepository, circleRepo *repository.CircleRepository, notifyRepo *repository.NotificationRepository) *PollService {
	return &PollService{PollRepo: pollRepo, CircleRepo: circleRepo, NotifyRepo: notifyRepo}
}

func (s *PollService) Create(poll *model.Poll, options []model.PollOption) error {
	isMember, err := s.CircleRepo.IsMember(poll.CircleID, poll.CreatorID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotCircleMember
	}
	if len(options) < 2 {
		return errors.New("poll needs at least two options")
	}
	return s.PollRepo.CreateWithOptions(poll, options)
}

func (s *PollService) Get(id string) (*model.Poll, error) {
	poll, err := s.PollRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPollNotFound
		}
		return nil, err
	}
	return poll, nil
}

func (s *PollService) ListByCircle(circleID string, userID uint) ([]model.Poll, error) {
	isMember, err := s.CircleRepo.IsMember(circleID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, util.ErrNotCircleMember
	}
	return s.PollRepo.ListByCircle(circleID)
}

// Vote 重复投票视为改票，投已关闭的票报错
func (s *PollService) Vote(pollID, optionID string, userID uint) error {
	poll, err := s.Get(pollID)
	if err != nil {
		return err
	}
	if poll.Status != "open" {
		return util.ErrPollClosed
	}

	isMember, err := s.CircleRepo.IsMember(poll.CircleID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotCircleMember
	}

	validOption := false
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			validOption = true
			break
		}
	}
	if !validOption {
		return errors.New("option does not belong to this poll")
	}

	return s.PollRepo.Vote(pollID, optionID, userID)
}

// Close 只有发起人能关闭，关闭后给圈内成员推一条通知
func (s *PollService) Close(pollID string, userID uint) error {
	poll, err := s.Get(pollID)
	if err != nil {
		return err
	}
	if poll.CreatorID != userID {
		return util.ErrPermissionDenied
	}
	if poll.Status != "open" {
		return util.ErrPollClosed
	}

	if err := s.PollRepo.Close(pollID); err != nil {
		return err
	}

	members, err := s.CircleRepo.GetMembers(poll.CircleID)
	if err == nil {
		for _, m := range members {
			if m.UserID == userID {
				continue
			}
			_ = s.NotifyRepo.Create(&model.Notification{
				UserID: m.UserID,
				Type:   "poll_closed",
				Title:  "投票已截止",
				Body:   poll.Question,
			})
		}
	}
	return nil
}

func (s *PollService) Results(pollID string, userID uint) (map[string]int64, error) {
	poll, err := s.Get(pollID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.CircleRepo.IsMember(poll.CircleID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, util.ErrNotCircleMember
	}
	return s.PollRepo.CountVotes(pollID)
}
