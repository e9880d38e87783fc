package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
)

type NotificationService struct {
	NotifyRepo *repository.NotificationRepository
}

func NewNotificationService(notifyRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{NotifyRepo: notifyRepo}
}

func (s *NotificationService) List(userID uint, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.NotifyRepo.ListByUser(userID, limit, offset)
}

func (s *NotificationService) MarkRead(id string, userID uint) error {
	return s.NotifyRepo.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.NotifyRepo.MarkAllRead(userID)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.NotifyRepo.CountUnread(userID)
}
