package model

import "time"

// CircleCategory 圈子分类（内置 + 审核通过的用户申请）
type CircleCategory struct {
	BaseModel
	Code        string `gorm:"size:50;uniqueIndex" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Enabled     bool   `gorm:"default:true" json:"enabled"`
}

func (CircleCategory) TableName() string {
	return "circle_categories"
}

// CategoryRequest 用户提议新增分类
type CategoryRequest struct {
	UUIDBase
	UserID uint   `gorm:"index;not null" json:"userId"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Reason string `gorm:"size:255" json:"reason"`
	Status string `gorm:"size:20;default:'pending'" json:"status"` // pending/approved/rejected
}

func (CategoryRequest) TableName() string {
	return "category_requests"
}

// Circle 兴趣圈子。HostID 即创建者，注销账号时其名下圈子连同子数据一并删除。
type Circle struct {
	UUIDBase
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	CategoryID  uint   `gorm:"index" json:"categoryId"`
	HostID      uint   `gorm:"index;not null" json:"hostId"`
	Avatar      string `gorm:"size:255" json:"avatar"`
	City        string `gorm:"size:100" json:"city"`
	MemberLimit int    `gorm:"default:0" json:"memberLimit"` // 0 表示不限
	IsPrivate   bool   `gorm:"default:false" json:"isPrivate"`
}

func (Circle) TableName() string {
	return "circles"
}

// CircleMember 成员关系
type CircleMember struct {
	CircleID string    `gorm:"primaryKey;type:varchar(36)" json:"circleId"`
	UserID   uint      `gorm:"primaryKey;index" json:"userId"`
	User     User      `gorm:"foreignKey:UserID;constraint:false" json:"user,omitempty"`
	Role     string    `gorm:"size:20;default:'member'" json:"role"` // host/member
	Nickname string    `gorm:"size:50" json:"nickname"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

func (CircleMember) TableName() string {
	return "circle_members"
}

// CircleInvitation 圈子邀请
type CircleInvitation struct {
	UUIDBase
	CircleID  string `gorm:"index;type:varchar(36);not null" json:"circleId"`
	InviterID uint   `gorm:"index;not null" json:"inviterId"`
	InviteeID uint   `gorm:"index;not null" json:"inviteeId"`
	Status    string `gorm:"size:20;default:'pending'" json:"status"` // pending/accepted/declined
	Message   string `gorm:"size:255" json:"message"`
}

func (CircleInvitation) TableName() string {
	return "circle_invitations"
}

// Announcement 圈主发布的公告
type Announcement struct {
	UUIDBase
	CircleID string `gorm:"index;type:varchar(36);not null" json:"circleId"`
	AuthorID uint   `gorm:"index;not null" json:"authorId"`
	Title    string `gorm:"size:100;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	Pinned   bool   `gorm:"default:false" json:"pinned"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// ReadMarker 记录用户在圈子聊天里读到的位置
type ReadMarker struct {
	CircleID   string    `gorm:"primaryKey;type:varchar(36)" json:"circleId"`
	UserID     uint      `gorm:"primaryKey;index" json:"userId"`
	LastReadID string    `gorm:"type:varchar(36);default:''" json:"lastReadId"`
	LastReadAt time.Time `json:"lastReadAt"`
}

func (ReadMarker) TableName() string {
	return "read_markers"
}

// LocationPing 活动进行中成员上报的实时位置
type LocationPing struct {
	BaseModel
	CircleID string  `gorm:"index;type:varchar(36);not null" json:"circleId"`
	EventID  string  `gorm:"index;type:varchar(36)" json:"eventId"`
	UserID   uint    `gorm:"index;not null" json:"userId"`
	Lat      float64 `gorm:"not null" json:"lat"`
	Lng      float64 `gorm:"not null" json:"lng"`
}

func (LocationPing) TableName() string {
	return "location_pings"
}
