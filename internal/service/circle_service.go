package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CircleService struct {
	CircleRepo *repository.CircleRepository
	NotifyRepo *repository.NotificationRepository
}

func NewCircleService(circleRepo *repository.CircleRepository, notifyRepo *repository.NotificationRepository) *CircleService {
	return &CircleService{CircleRepo: circleRepo, NotifyRepo: notifyRepo}
}

func (s *CircleService) Create(circle *model.Circle) error {
	return s.CircleRepo.Create(circle)
}

func (s *CircleService) Get(id string) (*model.Circle, error) {
	circle, err := s.CircleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCircleNotFound
		}
		return nil, err
	}
	return circle, nil
}

func (s *CircleService) List(categoryID uint, city, search string, limit, offset int) ([]model.Circle, int64, error) {
	return s.CircleRepo.List(categoryID, city, search, limit, offset)
}

func (s *CircleService) ListCategories() ([]model.CircleCategory, error) {
	return s.CircleRepo.ListCategories()
}

func (s *CircleService) RequestCategory(userID uint, name, reason string) (*model.CategoryRequest, error) {
	req := &model.CategoryRequest{UserID: userID, Name: name, Reason: reason}
	if err := s.CircleRepo.CreateCategoryRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Join 加入公开圈子。私密圈子只能走邀请。
func (s *CircleService) Join(circleID string, userID uint) error {
	circle, err := s.Get(circleID)
	if err != nil {
		return err
	}
	if circle.IsPrivate {
		return util.ErrPermissionDenied
	}
	return s.addMember(circle, userID)
}

func (s *CircleService) addMember(circle *model.Circle, userID uint) error {
	isMember, err := s.CircleRepo.IsMember(circle.ID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return util.ErrAlreadyMember
	}

	if circle.MemberLimit > 0 {
		count, err := s.CircleRepo.CountMembers(circle.ID)
		if err != nil {
			return err
		}
		if count >= int64(circle.MemberLimit) {
			return util.ErrCircleFull
		}
	}

	return s.CircleRepo.AddMember(&model.CircleMember{
		CircleID: circle.ID,
		UserID:   userID,
		Role:     "member",
	})
}

func (s *CircleService) Leave(circleID string, userID uint) error {
	circle, err := s.Get(circleID)
	if err != nil {
		return err
	}
	// 圈主不能退出，只能注销账号连圈子一起删
	if circle.HostID == userID {
		return util.ErrPermissionDenied
	}
	return s.CircleRepo.RemoveMember(circleID, userID)
}

func (s *CircleService) Members(circleID string) ([]model.CircleMember, error) {
	return s.CircleRepo.GetMembers(circleID)
}

func (s *CircleService) RequireMember(circleID string, userID uint) error {
	isMember, err := s.CircleRepo.IsMember(circleID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotCircleMember
	}
	return nil
}

// Invite 成员邀请好友入圈，同时给被邀请人发站内通知
func (s *CircleService) Invite(circleID string, inviterID, inviteeID uint, message string) (*model.CircleInvitation, error) {
	circle, err := s.Get(circleID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireMember(circleID, inviterID); err != nil {
		return nil, err
	}
	if isMember, err := s.CircleRepo.IsMember(circleID, inviteeID); err != nil {
		return nil, err
	} else if isMember {
		return nil, util.ErrAlreadyMember
	}

	inv := &model.CircleInvitation{
		CircleID:  circleID,
		InviterID: inviterID,
		InviteeID: inviteeID,
		Message:   message,
	}
	if err := s.CircleRepo.CreateInvitation(inv); err != nil {
		return nil, err
	}

	_ = s.NotifyRepo.Create(&model.Notification{
		UserID: inviteeID,
		Type:   "invite",
		Title:  "圈子邀请",
		Body:   "你被邀请加入圈子 " + circle.Name,
	})
	return inv, nil
}

// RespondInvitation accept 时入圈（受成员上限约束），decline 只改状态
func (s *CircleService) RespondInvitation(invitationID string, userID uint, accept bool) error {
	inv, err := s.CircleRepo.FindInvitation(invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCircleNotFound
		}
		return err
	}
	if inv.InviteeID != userID {
		return util.ErrPermissionDenied
	}
	if inv.Status != "pending" {
		return errors.New("invitation already handled")
	}

	if !accept {
		return s.CircleRepo.UpdateInvitationStatus(invitationID, "declined")
	}

	circle, err := s.Get(inv.CircleID)
	if err != nil {
		return err
	}
	if err := s.addMember(circle, userID); err != nil && err != util.ErrAlreadyMember {
		return err
	}
	return s.CircleRepo.UpdateInvitationStatus(invitationID, "accepted")
}

func (s *CircleService) ListInvitations(userID uint) ([]model.CircleInvitation, error) {
	return s.CircleRepo.ListInvitationsForUser(userID)
}

// PublishAnnouncement 只有圈主能发公告
func (s *CircleService) PublishAnnouncement(circleID string, authorID uint, title, content string, pinned bool) (*model.Announcement, error) {
	circle, err := s.Get(circleID)
	if err != nil {
		return nil, err
	}
	if circle.HostID != authorID {
		return nil, util.ErrPermissionDenied
	}

	a := &model.Announcement{
		CircleID: circleID,
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		Pinned:   pinned,
	}
	if err := s.CircleRepo.CreateAnnouncement(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CircleService) ListAnnouncements(circleID string, userID uint) ([]model.Announcement, error) {
	if err := s.RequireMember(circleID, userID); err != nil {
		return nil, err
	}
	return s.CircleRepo.ListAnnouncements(circleID)
}

func (s *CircleService) MarkRead(circleID string, userID uint, lastReadID string) error {
	if err := s.RequireMember(circleID, userID); err != nil {
		return err
	}
	return s.CircleRepo.UpsertReadMarker(circleID, userID, lastReadID)
}

// PingLocation 活动期间成员上报位置，只对圈内成员可见
func (s *CircleService) PingLocation(circleID, eventID string, userID uint, lat, lng float64) error {
	if err := s.RequireMember(circleID, userID); err != nil {
		return err
	}
	return s.CircleRepo.CreateLocationPing(&model.LocationPing{
		CircleID: circleID,
		EventID:  eventID,
		UserID:   userID,
		Lat:      lat,
		Lng:      lng,
	})
}

// RecentPings 最近 15 分钟内的位置上报
func (s *CircleService) RecentPings(circleID string, userID uint) ([]model.LocationPing, error) {
	if err := s.RequireMember(circleID, userID); err != nil {
		return nil, err
	}
	return s.CircleRepo.ListRecentPings(circleID, time.Now().Add(-15*time.Minute))
}
