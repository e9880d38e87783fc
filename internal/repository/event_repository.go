package repository

import (
	"circlemeet_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) FindByID(id string) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, "id = ?", id).Error
	return &event, err
}

func (r *EventRepository) ListByCircle(circleID string, upcomingOnly bool) ([]model.Event, error) {
	var events []model.Event
	db := r.DB.Where("circle_id = ?", circleID)
	if upcomingOnly {
		db = db.Where("starts_at >= ?", time.Now())
	}
	err := db.Order("starts_at").Find(&events).Error
	return events, err
}

func (r *EventRepository) UpsertAttendee(a *model.EventAttendee) error {
	var existing model.EventAttendee
	err := r.DB.Where("event_id = ? AND user_id = ?", a.EventID, a.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(a).Error
	}
	if err != nil {
		return err
	}
	return r.DB.Model(&model.EventAttendee{}).
		Where("event_id = ? AND user_id = ?", a.EventID, a.UserID).
		Update("status", a.Status).Error
}

func (r *EventRepository) CountGoing(eventID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EventAttendee{}).
		Where("event_id = ? AND status = ?", eventID, "going").
		Count(&count).Error
	return count, err
}

func (r *EventRepository) ListAttendees(eventID string) ([]model.EventAttendee, error) {
	var list []model.EventAttendee
	err := r.DB.Where("event_id = ?", eventID).Find(&list).Error
	return list, err
}
