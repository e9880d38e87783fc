package model

import "time"

// Poll 聚会时间投票，Status 取 open/closed
type Poll struct {
	UUIDBase
	CircleID  string       `gorm:"index;type:varchar(36);not null" json:"circleId"`
	CreatorID uint         `gorm:"index;not null" json:"creatorId"`
	Question  string       `gorm:"size:255;not null" json:"question"`
	Status    string       `gorm:"size:20;default:'open'" json:"status"`
	ClosesAt  *time.Time   `json:"closesAt"`
	Options   []PollOption `gorm:"foreignKey:PollID;constraint:false" json:"options,omitempty"`
}

func (Poll) TableName() string {
	return "polls"
}

// PollOption 候选时间段
type PollOption struct {
	UUIDBase
	PollID   string    `gorm:"index;type:varchar(36);not null" json:"pollId"`
	Label    string    `gorm:"size:100" json:"label"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote 每人每个投票一票，重复投视为改票
type PollVote struct {
	PollID    string    `gorm:"primaryKey;type:varchar(36)" json:"pollId"`
	UserID    uint      `gorm:"primaryKey;index" json:"userId"`
	OptionID  string    `gorm:"index;type:varchar(36);not null" json:"optionId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (PollVote) TableName() string {
	return "poll_votes"
}
