package model

import "time"

// Notification 站内通知
type Notification struct {
	UUIDBase
	UserID uint       `gorm:"index;not null" json:"userId"`
	Type   string     `gorm:"size:30;not null" json:"type"` // invite/friend_request/poll_closed/...
	Title  string     `gorm:"size:100" json:"title"`
	Body   string     `gorm:"size:500" json:"body"`
	Read   bool       `gorm:"default:false" json:"read"`
	ReadAt *time.Time `json:"readAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
