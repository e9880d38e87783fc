package repository

import (
	"circlemeet_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CircleRepository struct {
	DB *gorm.DB
}

func NewCircleRepository(db *gorm.DB) *CircleRepository {
	return &CircleRepository{DB: db}
}

func (r *CircleRepository) Create(circle *model.Circle) error {
	// 建圈和写入圈主成员记录放同一个事务
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(circle).Error; err != nil {
			return err
		}
		member := &model.CircleMember{
			CircleID: circle.ID,
			UserID:   circle.HostID,
			Role:     "host",
		}
		return tx.Create(member).Error
	})
}

func (r *CircleRepository) FindByID(id string) (*model.Circle, error) {
	var circle model.Circle
	err := r.DB.First(&circle, "id = ?", id).Error
	return &circle, err
}

func (r *CircleRepository) List(categoryID uint, city, search string, limit, offset int) ([]model.Circle, int64, error) {
	var circles []model.Circle
	var total int64

	db := r.DB.Model(&model.Circle{})
	if categoryID > 0 {
		db = db.Where("category_id = ?", categoryID)
	}
	if city != "" {
		db = db.Where("city = ?", city)
	}
	if search != "" {
		term := "%" + search + "%"
		db = db.Where("(name LIKE ? OR description LIKE ?)", term, term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&circles).Error
	return circles, total, err
}

// ListOwnedByHost 某用户主持/创建的全部圈子，注销级联从这里出发
func (r *CircleRepository) ListOwnedByHost(hostID uint) ([]model.Circle, error) {
	var circles []model.Circle
	err := r.DB.Where("host_id = ?", hostID).Find(&circles).Error
	return circles, err
}

func (r *CircleRepository) Update(circle *model.Circle) error {
	return r.DB.Save(circle).Error
}

func (r *CircleRepository) ListCategories() ([]model.CircleCategory, error) {
	var cats []model.CircleCategory
	err := r.DB.Where("enabled = ?", true).Order("id").Find(&cats).Error
	return cats, err
}

func (r *CircleRepository) CreateCategoryRequest(req *model.CategoryRequest) error {
	return r.DB.Create(req).Error
}

// --- 成员 ---

func (r *CircleRepository) AddMember(m *model.CircleMember) error {
	return r.DB.Create(m).Error
}

func (r *CircleRepository) RemoveMember(circleID string, userID uint) error {
	return r.DB.Where("circle_id = ? AND user_id = ?", circleID, userID).
		Delete(&model.CircleMember{}).Error
}

func (r *CircleRepository) GetMembers(circleID string) ([]model.CircleMember, error) {
	var members []model.CircleMember
	err := r.DB.Preload("User").Where("circle_id = ?", circleID).Find(&members).Error
	return members, err
}

func (r *CircleRepository) IsMember(circleID string, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CircleMember{}).
		Where("circle_id = ? AND user_id = ?", circleID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CircleRepository) CountMembers(circleID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CircleMember{}).
		Where("circle_id = ?", circleID).
		Count(&count).Error
	return count, err
}

// --- 邀请 ---

func (r *CircleRepository) CreateInvitation(inv *model.CircleInvitation) error {
	return r.DB.Create(inv).Error
}

func (r *CircleRepository) FindInvitation(id string) (*model.CircleInvitation, error) {
	var inv model.CircleInvitation
	err := r.DB.First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *CircleRepository) UpdateInvitationStatus(id string, status string) error {
	return r.DB.Model(&model.CircleInvitation{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *CircleRepository) ListInvitationsForUser(userID uint) ([]model.CircleInvitation, error) {
	var invs []model.CircleInvitation
	err := r.DB.Where("invitee_id = ? AND status = ?", userID, "pending").
		Order("created_at DESC").Find(&invs).Error
	return invs, err
}

// --- 公告 ---

func (r *CircleRepository) CreateAnnouncement(a *model.Announcement) error {
	return r.DB.Create(a).Error
}

func (r *CircleRepository) ListAnnouncements(circleID string) ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.DB.Where("circle_id = ?", circleID).
		Order("pinned DESC, created_at DESC").Find(&list).Error
	return list, err
}

// --- 已读位置 ---

func (r *CircleRepository) UpsertReadMarker(circleID string, userID uint, lastReadID string) error {
	marker := model.ReadMarker{
		CircleID:   circleID,
		UserID:     userID,
		LastReadID: lastReadID,
		LastReadAt: time.Now(),
	}
	var existing model.ReadMarker
	err := r.DB.Where("circle_id = ? AND user_id = ?", circleID, userID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&marker).Error
	}
	if err != nil {
		return err
	}
	return r.DB.Model(&model.ReadMarker{}).
		Where("circle_id = ? AND user_id = ?", circleID, userID).
		Updates(map[string]interface{}{"last_read_id": lastReadID, "last_read_at": marker.LastReadAt}).Error
}

// --- 实时位置 ---

func (r *CircleRepository) CreateLocationPing(p *model.LocationPing) error {
	return r.DB.Create(p).Error
}

func (r *CircleRepository) ListRecentPings(circleID string, since time.Time) ([]model.LocationPing, error) {
	var pings []model.LocationPing
	err := r.DB.Where("circle_id = ? AND created_at >= ?", circleID, since).
		Order("created_at DESC").Find(&pings).Error
	return pings, err
}
