package model

import "time"

// Message 圈子聊天消息。SenderID 为空表示系统消息；Type 取
// text/image/file/video/system；附件存对象存储，消息上记的是访问 URL；
// ClientMsgID 用于识别客户端重发的重复消息。
type Message struct {
	UUIDBase
	CircleID      string `gorm:"index;index:idx_circle_created;type:varchar(36);not null" json:"circleId"`
	SenderID      *uint  `gorm:"index" json:"senderId"`
	Type          string `gorm:"size:20;default:'text'" json:"type"`
	Content       string `gorm:"type:text" json:"content"`
	AttachmentURL string `gorm:"size:255" json:"attachmentUrl"`
	ThumbnailURL  string `gorm:"size:255" json:"thumbnailUrl"`
	ClientMsgID   string `gorm:"size:50;index" json:"clientMsgId"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageReaction 表情回应
type MessageReaction struct {
	MessageID string    `gorm:"primaryKey;type:varchar(36)" json:"messageId"`
	UserID    uint      `gorm:"primaryKey;index" json:"userId"`
	Emoji     string    `gorm:"primaryKey;size:20" json:"emoji"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}

// MessageRead 逐条已读记录
type MessageRead struct {
	MessageID string    `gorm:"primaryKey;type:varchar(36)" json:"messageId"`
	UserID    uint      `gorm:"primaryKey;index" json:"userId"`
	ReadAt    time.Time `gorm:"autoCreateTime" json:"readAt"`
}

func (MessageRead) TableName() string {
	return "message_reads"
}

// DirectMessage 好友间私信
type DirectMessage struct {
	UUIDBase
	SenderID   uint       `gorm:"index;not null" json:"senderId"`
	ReceiverID uint       `gorm:"index;not null" json:"receiverId"`
	Type       string     `gorm:"size:20;default:'text'" json:"type"`
	Content    string     `gorm:"type:text" json:"content"`
	ReadAt     *time.Time `json:"readAt"`
}

func (DirectMessage) TableName() string {
	return "direct_messages"
}
