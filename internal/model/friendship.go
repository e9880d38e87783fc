package model

import "time"

// Friendship 好友关系表，双向各存一行
type Friendship struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	FriendID  uint      `gorm:"primaryKey" json:"friendId"`
	Status    string    `gorm:"size:20;default:'accepted'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// FriendRequest 好友申请表
type FriendRequest struct {
	UUIDBase
	SenderID   uint   `gorm:"index;not null" json:"senderId"`
	Sender     User   `gorm:"foreignKey:SenderID;references:ID;constraint:false" json:"sender,omitempty"`
	ReceiverID uint   `gorm:"index;not null" json:"receiverId"`
	Receiver   User   `gorm:"foreignKey:ReceiverID;references:ID;constraint:false" json:"receiver,omitempty"`
	Status     string `gorm:"size:20;default:'pending'" json:"status"` // pending/accepted/rejected
	Message    string `gorm:"size:255" json:"message"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// ReconnectRequest 断联后重新建立联系的请求
type ReconnectRequest struct {
	UUIDBase
	SenderID   uint   `gorm:"index;not null" json:"senderId"`
	ReceiverID uint   `gorm:"index;not null" json:"receiverId"`
	Status     string `gorm:"size:20;default:'pending'" json:"status"`
	Note       string `gorm:"size:255" json:"note"`
}

func (ReconnectRequest) TableName() string {
	return "reconnect_requests"
}
