package model

import "time"

// Event 圈子里的一次线下聚会
type Event struct {
	UUIDBase
	CircleID    string    `gorm:"index;type:varchar(36);not null" json:"circleId"`
	CreatorID   uint      `gorm:"index;not null" json:"creatorId"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `gorm:"index" json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `gorm:"default:0" json:"capacity"` // 0 表示不限
}

func (Event) TableName() string {
	return "events"
}

// EventAttendee 报名记录
type EventAttendee struct {
	EventID     string    `gorm:"primaryKey;type:varchar(36)" json:"eventId"`
	UserID      uint      `gorm:"primaryKey;index" json:"userId"`
	Status      string    `gorm:"size:20;default:'going'" json:"status"` // going/maybe/declined
	RespondedAt time.Time `gorm:"autoCreateTime" json:"respondedAt"`
}

func (EventAttendee) TableName() string {
	return "event_attendees"
}
