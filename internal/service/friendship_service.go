package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"errors"
)

type FriendshipService struct {
	FriendshipRepo *repository.FriendshipRepository
	NotifyRepo     *repository.NotificationRepository
}

func NewFriendshipService(friendshipRepo *repository.FriendshipRepository, notifyRepo *repository.NotificationRepository) *FriendshipService {
	return &FriendshipService{FriendshipRepo: friendshipRepo, NotifyRepo: notifyRepo}
}

func (s *FriendshipService) ListFriends(userID uint, query string) ([]model.User, error) {
	return s.FriendshipRepo.GetFriends(userID, query)
}

func (s *FriendshipService) SendRequest(senderID, receiverID uint, message string) (*model.FriendRequest, error) {
	if senderID == receiverID {
		return nil, errors.New("cannot add yourself")
	}
	isFriend, err := s.FriendshipRepo.IsFriend(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if isFriend {
		return nil, errors.New("already friends")
	}

	req := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
	}
	if err := s.FriendshipRepo.CreateRequest(req); err != nil {
		return nil, err
	}

	_ = s.NotifyRepo.Create(&model.Notification{
		UserID: receiverID,
		Type:   "friend_request",
		Title:  "好友申请",
		Body:   message,
	})
	return req, nil
}

// Respond accept 时双向建好友关系
func (s *FriendshipService) Respond(requestID string, userID uint, accept bool) error {
	req, err := s.FriendshipRepo.GetRequest(requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != userID {
		return util.ErrPermissionDenied
	}
	if req.Status != "pending" {
		return errors.New("request already handled")
	}

	if !accept {
		return s.FriendshipRepo.UpdateRequestStatus(requestID, "rejected")
	}

	if err := s.FriendshipRepo.CreateFriendship(&model.Friendship{
		UserID:   req.SenderID,
		FriendID: req.ReceiverID,
		Status:   "accepted",
	}); err != nil {
		return err
	}
	return s.FriendshipRepo.UpdateRequestStatus(requestID, "accepted")
}

func (s *FriendshipService) PendingRequests(userID uint) ([]model.FriendRequest, error) {
	return s.FriendshipRepo.GetPendingRequests(userID)
}

func (s *FriendshipService) Unfriend(userID, friendID uint) error {
	return s.FriendshipRepo.DeleteFriendship(userID, friendID)
}

// --- 重新联系：解除好友后想恢复联系要先发请求 ---

func (s *FriendshipService) SendReconnect(senderID, receiverID uint, note string) (*model.ReconnectRequest, error) {
	isFriend, err := s.FriendshipRepo.IsFriend(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if isFriend {
		return nil, errors.New("already friends")
	}

	req := &model.ReconnectRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Note:       note,
	}
	if err := s.FriendshipRepo.CreateReconnectRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *FriendshipService) RespondReconnect(requestID string, userID uint, accept bool) error {
	req, err := s.FriendshipRepo.GetReconnectRequest(requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != userID {
		return util.ErrPermissionDenied
	}
	if req.Status != "pending" {
		return errors.New("request already handled")
	}

	if !accept {
		return s.FriendshipRepo.UpdateReconnectStatus(requestID, "rejected")
	}

	if err := s.FriendshipRepo.CreateFriendship(&model.Friendship{
		UserID:   req.SenderID,
		FriendID: req.ReceiverID,
		Status:   "accepted",
	}); err != nil {
		return err
	}
	return s.FriendshipRepo.UpdateReconnectStatus(requestID, "accepted")
}

func (s *FriendshipService) ListReconnects(userID uint) ([]model.ReconnectRequest, error) {
	return s.FriendshipRepo.ListReconnectRequests(userID)
}
