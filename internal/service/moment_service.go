package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
)

type MomentService struct {
	MomentRepo *repository.MomentRepository
	CircleRepo *repository.CircleRepository
}

func NewMomentService(momentRepo *repository.MomentRepository, circleRepo *repository.CircleRepository) *MomentService {
	return &MomentService{MomentRepo: momentRepo, CircleRepo: circleRepo}
}

func (s *MomentService) Create(m *model.Moment) error {
	isMember, err := s.CircleRepo.IsMember(m.CircleID, m.AuthorID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotCircleMember
	}
	return s.MomentRepo.Create(m)
}

func (s *MomentService) ListByCircle(circleID string, userID uint, limit, offset int) ([]model.Moment, int64, error) {
	isMember, err := s.CircleRepo.IsMember(circleID, userID)
	if err != nil {
		return nil, 0, err
	}
	if !isMember {
		return nil, 0, util.ErrNotCircleMember
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.MomentRepo.ListByCircle(circleID, limit, offset)
}

// Delete 作者本人或圈主可删
func (s *MomentService) Delete(id string, userID uint) error {
	m, err := s.MomentRepo.FindByID(id)
	if err != nil {
		return err
	}
	if m.AuthorID != userID {
		circle, err := s.CircleRepo.FindByID(m.CircleID)
		if err != nil {
			return err
		}
		if circle.HostID != userID {
			return util.ErrPermissionDenied
		}
	}
	return s.MomentRepo.Delete(id)
}
