package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

// User 认证身份。级联删除的最后一步硬删这一行，之后该账号的所有凭证立即失效。
// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'member'" json:"role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// Profile 展示资料，和认证身份分表存。历史版本用 owner_id 做外键，
// 级联删除按 user_id 或 owner_id 两列兜底匹配。
type Profile struct {
	UUIDBase
	UserID      uint    `gorm:"index" json:"userId"`
	OwnerID     *uint   `gorm:"index" json:"-"` // 旧表结构的外键列，仅兼容用
	DisplayName string  `gorm:"size:100" json:"displayName"`
	Bio         string  `gorm:"size:500" json:"bio"`
	City        string  `gorm:"size:100" json:"city"`
	Age         int     `gorm:"default:0" json:"age"`
	Interests   string  `gorm:"size:255" json:"interests"`
	StyleTag    string  `gorm:"size:50" json:"styleTag"` // 最近一次社交节奏问卷的风格标签
	Reputation  float64 `gorm:"default:0" json:"reputation"`
}

func (Profile) TableName() string {
	return "profiles"
}
