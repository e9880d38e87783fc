package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"circlemeet_backend/pkg/logger"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageService struct {
	MessageRepo    *repository.MessageRepository
	CircleRepo     *repository.CircleRepository
	FriendshipRepo *repository.FriendshipRepository
	Storage        *StorageService
}

func NewMessageService(messageRepo *repository.MessageRepository, circleRepo *repository.CircleRepository, friendshipRepo *repository.FriendshipRepository, storage *StorageService) *MessageService {
	return &MessageService{
		MessageRepo:    messageRepo,
		CircleRepo:     circleRepo,
		FriendshipRepo: friendshipRepo,
		Storage:        storage,
	}
}

func (s *MessageService) Send(msg *model.Message) error {
	if msg.SenderID != nil {
		isMember, err := s.CircleRepo.IsMember(msg.CircleID, *msg.SenderID)
		if err != nil {
			return err
		}
		if !isMember {
			return util.ErrNotCircleMember
		}
	}
	return s.MessageRepo.Create(msg)
}

func (s *MessageService) ListByCircle(circleID string, userID uint, before time.Time, limit int) ([]model.Message, error) {
	isMember, err := s.CircleRepo.IsMember(circleID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, util.ErrNotCircleMember
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.MessageRepo.ListByCircle(circleID, before, limit)
}

// UploadAttachment 附件存到 circle-uploads/{circleID}/ 目录。
// 视频附件抓一帧生成缩略图一并上传。
func (s *MessageService) UploadAttachment(ctx context.Context, circleID string, userID uint, filename string, reader io.Reader, size int64) (attachmentURL, thumbnailURL string, err error) {
	isMember, err := s.CircleRepo.IsMember(circleID, userID)
	if err != nil {
		return "", "", err
	}
	if !isMember {
		return "", "", util.ErrNotCircleMember
	}

	// 先落到临时文件做 MIME 深度校验，视频还要喂给 ffmpeg
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", "", err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, reader); err != nil {
		return "", "", err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}

	mimeType, err := util.ValidateMimeType(tmp, []string{util.MimeImage, util.MimeVideo, util.MimeOctetStream})
	if err != nil {
		return "", "", err
	}

	objectName := fmt.Sprintf("%s%d_%s%s",
		util.CircleObjectPrefix(circleID), userID, uuid.New().String()[:8], filepath.Ext(filename))

	attachmentURL, err = s.Storage.UploadFile(ctx, objectName, tmp.Name(), mimeType)
	if err != nil {
		return "", "", err
	}

	if util.IsVideo(mimeType) {
		thumbPath := tmp.Name() + ".thumb.jpg"
		if err := util.GenerateVideoThumbnail(tmp.Name(), thumbPath, "00:00:01"); err != nil {
			// 缩略图失败不阻塞发消息
			logger.Log.Warn("生成视频缩略图失败", zap.String("object", objectName), zap.Error(err))
			return attachmentURL, "", nil
		}
		defer os.Remove(thumbPath)

		thumbObject := objectName + ".thumb.jpg"
		thumbnailURL, err = s.Storage.UploadFile(ctx, thumbObject, thumbPath, "image/jpeg")
		if err != nil {
			logger.Log.Warn("上传视频缩略图失败", zap.String("object", thumbObject), zap.Error(err))
			return attachmentURL, "", nil
		}
	}

	return attachmentURL, thumbnailURL, nil
}

func (s *MessageService) React(messageID string, userID uint, emoji string) error {
	msg, err := s.MessageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	isMember, err := s.CircleRepo.IsMember(msg.CircleID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return util.ErrNotCircleMember
	}
	return s.MessageRepo.AddReaction(&model.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	})
}

func (s *MessageService) RemoveReaction(messageID string, userID uint, emoji string) error {
	return s.MessageRepo.RemoveReaction(messageID, userID, emoji)
}

func (s *MessageService) MarkRead(messageID string, userID uint) error {
	return s.MessageRepo.MarkRead(messageID, userID)
}

// SendDM 私信只在好友之间投递
func (s *MessageService) SendDM(dm *model.DirectMessage) error {
	isFriend, err := s.FriendshipRepo.IsFriend(dm.SenderID, dm.ReceiverID)
	if err != nil {
		return err
	}
	if !isFriend {
		return util.ErrNotFriends
	}
	return s.MessageRepo.CreateDM(dm)
}

func (s *MessageService) ListDMs(userID, peerID uint, limit int) ([]model.DirectMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	dms, err := s.MessageRepo.ListDMs(userID, peerID, limit)
	if err != nil {
		return nil, err
	}
	// 拉历史顺带把对方发来的标成已读
	_ = s.MessageRepo.MarkDMsRead(userID, peerID)
	return dms, nil
}
