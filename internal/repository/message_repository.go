package repository

import (
	"circlemeet_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(msg *model.Message) error {
	// 客户端重发时按 client_msg_id 去重
	if msg.ClientMsgID != "" {
		var existing model.Message
		err := r.DB.Where("circle_id = ? AND client_msg_id = ?", msg.CircleID, msg.ClientMsgID).
			First(&existing).Error
		if err == nil {
			*msg = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
	}
	return r.DB.Create(msg).Error
}

// ListByCircle 按时间倒序分页拉取历史消息
func (r *MessageRepository) ListByCircle(circleID string, before time.Time, limit int) ([]model.Message, error) {
	var msgs []model.Message
	db := r.DB.Where("circle_id = ?", circleID)
	if !before.IsZero() {
		db = db.Where("created_at < ?", before)
	}
	err := db.Order("created_at DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) FindByID(id string) (*model.Message, error) {
	var msg model.Message
	err := r.DB.First(&msg, "id = ?", id).Error
	return &msg, err
}

func (r *MessageRepository) AddReaction(reaction *model.MessageReaction) error {
	var existing model.MessageReaction
	err := r.DB.Where("message_id = ? AND user_id = ? AND emoji = ?",
		reaction.MessageID, reaction.UserID, reaction.Emoji).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(reaction).Error
	}
	return err
}

func (r *MessageRepository) RemoveReaction(messageID string, userID uint, emoji string) error {
	return r.DB.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&model.MessageReaction{}).Error
}

func (r *MessageRepository) MarkRead(messageID string, userID uint) error {
	var existing model.MessageRead
	err := r.DB.Where("message_id = ? AND user_id = ?", messageID, userID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.MessageRead{MessageID: messageID, UserID: userID}).Error
	}
	return err
}

// ListUserAttachments 某用户发过的所有带附件消息的对象路径，注销级联用来逐个清理
func (r *MessageRepository) ListUserAttachments(userID uint) ([]string, error) {
	var urls []string
	err := r.DB.Model(&model.Message{}).
		Where("sender_id = ? AND attachment_url <> ''", userID).
		Pluck("attachment_url", &urls).Error
	return urls, err
}

// --- 私信 ---

func (r *MessageRepository) CreateDM(dm *model.DirectMessage) error {
	return r.DB.Create(dm).Error
}

func (r *MessageRepository) ListDMs(userID, peerID uint, limit int) ([]model.DirectMessage, error) {
	var dms []model.DirectMessage
	err := r.DB.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, peerID, peerID, userID,
	).Order("created_at DESC").Limit(limit).Find(&dms).Error
	return dms, err
}

func (r *MessageRepository) MarkDMsRead(userID, peerID uint) error {
	now := time.Now()
	return r.DB.Model(&model.DirectMessage{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", userID, peerID).
		Update("read_at", now).Error
}
