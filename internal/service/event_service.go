package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type EventService struct {
	EventRepo  *repository.EventRepository
	CircleRepo *repository.CircleRepository
}

func NewEventService(eventRepo *repository.EventRepository, circleRepo *repository.CircleRepository) *EventService {
	return &EventService{EventRepo: eventRepo, CircleRepo: circleRepo}
}

func (s *EventService) Create(event *model.Event) error {
	isMember, err := s.CircleRepo.IsMember(event.CircleID, event.CreatorID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotCircleMember
	}
	return s.EventRepo.Create(event)
}

func (s *EventService) Get(id string) (*model.Event, error) {
	event, err := s.EventRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) ListByCircle(circleID string, userID uint, upcomingOnly bool) ([]model.Event, error) {
	isMember, err := s.CircleRepo.IsMember(circleID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, util.ErrNotCircleMember
	}
	return s.EventRepo.ListByCircle(circleID, upcomingOnly)
}

// RSVP 报名/改签。going 受容量限制，maybe/declined 不占名额。
func (s *EventService) RSVP(eventID string, userID uint, status string) error {
	event, err := s.Get(eventID)
	if err != nil {
		return err
	}

	isMember, err := s.CircleRepo.IsMember(event.CircleID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotCircleMember
	}

	if status == "going" && event.Capacity > 0 {
		going, err := s.EventRepo.CountGoing(eventID)
		if err != nil {
			return err
		}
		if going >= int64(event.Capacity) {
			return util.ErrEventFull
		}
	}

	return s.EventRepo.UpsertAttendee(&model.EventAttendee{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	})
}

func (s *EventService) Attendees(eventID string, userID uint) ([]model.EventAttendee, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.CircleRepo.IsMember(event.CircleID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, util.ErrNotCircleMember
	}
	return s.EventRepo.ListAttendees(eventID)
}
