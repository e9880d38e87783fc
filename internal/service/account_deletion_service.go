package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"circlemeet_backend/pkg/logger"
	"circlemeet_backend/pkg/monitoring"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountDeletionService 按固定顺序清空一个账号名下的所有数据：
// 先处理其主持的圈子（子记录在前），再按集合顺序删个人记录，然后清
// 对象存储前缀，最后硬删认证身份。
//
// 原子性的取舍：表删除整体放在一个数据库事务里，对象存储和身份删除
// 无法加入 SQL 事务，只能排在事务成功之后。存储步骤失败时表数据已经
// 删掉，这个缺口是已知的（见 DESIGN.md），重跑会在空集合上空转并在
// 身份删除一步报"identity not found"。
type AccountDeletionService struct {
	DB             *gorm.DB
	UserRepo       *repository.UserRepository
	FriendshipRepo *repository.FriendshipRepository
	Storage        StorageProvider

	RowBatchSize     int // 单条 DELETE 里 IN 列表的上限
	StorageBatchSize int // 单轮清理的存储对象数上限
}

func NewAccountDeletionService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	friendshipRepo *repository.FriendshipRepository,
	storage StorageProvider,
	rowBatchSize, storageBatchSize int,
) *AccountDeletionService {
	if rowBatchSize <= 0 {
		rowBatchSize = 500
	}
	if storageBatchSize <= 0 {
		storageBatchSize = 200
	}
	return &AccountDeletionService{
		DB:               db,
		UserRepo:         userRepo,
		FriendshipRepo:   friendshipRepo,
		Storage:          storage,
		RowBatchSize:     rowBatchSize,
		StorageBatchSize: storageBatchSize,
	}
}

// Run 执行级联删除。任何一步失败立即中止并带出出错的集合名，
// 已完成的删除不回滚。
func (s *AccountDeletionService) Run(ctx context.Context, userID uint) error {
	start := time.Now()
	err := s.run(ctx, userID)
	monitoring.AccountDeletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.AccountDeletions.WithLabelValues("failed").Inc()
		return err
	}
	monitoring.AccountDeletions.WithLabelValues("ok").Inc()
	return nil
}

func (s *AccountDeletionService) run(ctx context.Context, userID uint) error {
	// 1. 名下圈子、附件路径、好友关系要在删表之前读出来
	var ownedCircles []model.Circle
	if err := s.DB.Where("host_id = ?", userID).Find(&ownedCircles).Error; err != nil {
		return fmt.Errorf("resolve owned circles: %w", err)
	}

	var attachments []string
	if err := s.DB.Model(&model.Message{}).
		Where("sender_id = ? AND attachment_url <> ''", userID).
		Pluck("attachment_url", &attachments).Error; err != nil {
		return fmt.Errorf("resolve message attachments: %w", err)
	}
	var thumbnails []string
	if err := s.DB.Model(&model.Message{}).
		Where("sender_id = ? AND thumbnail_url <> ''", userID).
		Pluck("thumbnail_url", &thumbnails).Error; err != nil {
		return fmt.Errorf("resolve message thumbnails: %w", err)
	}
	attachments = append(attachments, thumbnails...)

	friendIDs, err := s.FriendshipRepo.GetFriendIDs(userID)
	if err != nil {
		return fmt.Errorf("resolve friendships: %w", err)
	}

	// 2. 全部表删除放一个事务
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, circle := range ownedCircles {
			if err := s.deleteCircleData(tx, circle.ID); err != nil {
				return err
			}
		}
		return s.deleteAccountRows(tx, userID)
	})
	if err != nil {
		return err
	}

	s.FriendshipRepo.InvalidateFriendCache(append(friendIDs, userID)...)

	// 3. 对象存储：先逐个删散落的附件，再整目录清头像和圈子上传
	if err := s.deleteAttachments(ctx, attachments, ownedCircles); err != nil {
		return err
	}
	if err := s.Storage.RemovePrefix(ctx, util.AvatarObjectPrefix(userID)); err != nil {
		return fmt.Errorf("remove avatar storage prefix: %w", err)
	}
	for _, circle := range ownedCircles {
		if err := s.Storage.RemovePrefix(ctx, util.CircleObjectPrefix(circle.ID)); err != nil {
			return fmt.Errorf("remove circle storage prefix %s: %w", circle.ID, err)
		}
	}

	// 4. 最后删认证身份，之后该账号所有凭证立即失效
	if err := s.UserRepo.DeleteIdentity(s.DB, userID); err != nil {
		if err == util.ErrIdentityNotFound {
			return err
		}
		return fmt.Errorf("delete identity: %w", err)
	}

	logger.Log.Info("account deletion cascade completed",
		zap.Uint("userId", userID),
		zap.Int("ownedCircles", len(ownedCircles)))
	return nil
}

// deleteCircleData 清空一个圈子的全部子数据再删圈子本身。
// 顺序固定：引用别的行的子记录必须先删。
func (s *AccountDeletionService) deleteCircleData(tx *gorm.DB, circleID string) error {
	// 消息和投票先取出 ID，它们自己还有子记录
	var messageIDs []string
	if err := tx.Model(&model.Message{}).Where("circle_id = ?", circleID).
		Pluck("id", &messageIDs).Error; err != nil {
		return fmt.Errorf("circle %s: resolve messages: %w", circleID, err)
	}
	var pollIDs []string
	if err := tx.Model(&model.Poll{}).Where("circle_id = ?", circleID).
		Pluck("id", &pollIDs).Error; err != nil {
		return fmt.Errorf("circle %s: resolve polls: %w", circleID, err)
	}
	var eventIDs []string
	if err := tx.Model(&model.Event{}).Where("circle_id = ?", circleID).
		Pluck("id", &eventIDs).Error; err != nil {
		return fmt.Errorf("circle %s: resolve events: %w", circleID, err)
	}

	steps := []struct {
		collection string
		fn         func() error
	}{
		{"event_attendees", func() error {
			return s.deleteByIDChunks(tx, &model.EventAttendee{}, "event_id", eventIDs)
		}},
		{"events", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.Event{}).Error
		}},
		{"moments", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.Moment{}).Error
		}},
		{"circle_invitations", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.CircleInvitation{}).Error
		}},
		{"read_markers", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.ReadMarker{}).Error
		}},
		{"location_pings", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.LocationPing{}).Error
		}},
		{"circle_members", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.CircleMember{}).Error
		}},
		{"message_reactions", func() error {
			return s.deleteByIDChunks(tx, &model.MessageReaction{}, "message_id", messageIDs)
		}},
		{"message_reads", func() error {
			return s.deleteByIDChunks(tx, &model.MessageRead{}, "message_id", messageIDs)
		}},
		{"messages", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.Message{}).Error
		}},
		{"poll_votes", func() error {
			return s.deleteByIDChunks(tx, &model.PollVote{}, "poll_id", pollIDs)
		}},
		{"poll_options", func() error {
			return s.deleteByIDChunks(tx, &model.PollOption{}, "poll_id", pollIDs)
		}},
		{"polls", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.Poll{}).Error
		}},
		{"announcements", func() error {
			return tx.Unscoped().Where("circle_id = ?", circleID).Delete(&model.Announcement{}).Error
		}},
		{"circles", func() error {
			return tx.Unscoped().Where("id = ?", circleID).Delete(&model.Circle{}).Error
		}},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("circle %s: delete %s: %w", circleID, step.collection, err)
		}
	}
	return nil
}

// deleteAccountRows 固定顺序删个人记录。用户发过的消息可能带着别人的
// 回应/已读，先按消息 ID 清掉这些子记录。
func (s *AccountDeletionService) deleteAccountRows(tx *gorm.DB, userID uint) error {
	var ownMessageIDs []string
	if err := tx.Model(&model.Message{}).Where("sender_id = ?", userID).
		Pluck("id", &ownMessageIDs).Error; err != nil {
		return fmt.Errorf("resolve authored messages: %w", err)
	}

	steps := []struct {
		collection string
		fn         func() error
	}{
		{"message_reactions", func() error {
			if err := s.deleteByIDChunks(tx, &model.MessageReaction{}, "message_id", ownMessageIDs); err != nil {
				return err
			}
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.MessageReaction{}).Error
		}},
		{"message_reads", func() error {
			if err := s.deleteByIDChunks(tx, &model.MessageRead{}, "message_id", ownMessageIDs); err != nil {
				return err
			}
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.MessageRead{}).Error
		}},
		{"messages", func() error {
			return tx.Unscoped().Where("sender_id = ?", userID).Delete(&model.Message{}).Error
		}},
		{"poll_votes", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.PollVote{}).Error
		}},
		{"direct_messages", func() error {
			return tx.Unscoped().Where("sender_id = ? OR receiver_id = ?", userID, userID).
				Delete(&model.DirectMessage{}).Error
		}},
		{"friend_requests", func() error {
			return tx.Unscoped().Where("sender_id = ? OR receiver_id = ?", userID, userID).
				Delete(&model.FriendRequest{}).Error
		}},
		{"friendships", func() error {
			return tx.Unscoped().Where("user_id = ? OR friend_id = ?", userID, userID).
				Delete(&model.Friendship{}).Error
		}},
		{"ratings", func() error {
			return tx.Unscoped().Where("rater_id = ? OR ratee_id = ?", userID, userID).
				Delete(&model.Rating{}).Error
		}},
		{"reconnect_requests", func() error {
			return tx.Unscoped().Where("sender_id = ? OR receiver_id = ?", userID, userID).
				Delete(&model.ReconnectRequest{}).Error
		}},
		{"reports", func() error {
			return tx.Unscoped().Where("reporter_id = ? OR reported_id = ?", userID, userID).
				Delete(&model.Report{}).Error
		}},
		{"circle_invitations", func() error {
			return tx.Unscoped().Where("inviter_id = ? OR invitee_id = ?", userID, userID).
				Delete(&model.CircleInvitation{}).Error
		}},
		{"category_requests", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.CategoryRequest{}).Error
		}},
		{"moments", func() error {
			return tx.Unscoped().Where("author_id = ?", userID).Delete(&model.Moment{}).Error
		}},
		{"notifications", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.Notification{}).Error
		}},
		{"read_markers", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.ReadMarker{}).Error
		}},
		{"location_pings", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.LocationPing{}).Error
		}},
		{"event_attendees", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.EventAttendee{}).Error
		}},
		{"circle_members", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.CircleMember{}).Error
		}},
		{"quiz_results", func() error {
			return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.QuizResult{}).Error
		}},
		// 资料行按 user_id 或旧表结构的 owner_id 兜底匹配
		{"profiles", func() error {
			return tx.Unscoped().Where("user_id = ? OR owner_id = ?", userID, userID).
				Delete(&model.Profile{}).Error
		}},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("delete %s: %w", step.collection, err)
		}
	}
	return nil
}

// deleteAttachments 逐个删用户自己消息的附件。消息里存的是存储层返回
// 的访问 URL，先还原成对象键；落在名下圈子目录里的跳过，后面整前缀
// 清理会覆盖。
func (s *AccountDeletionService) deleteAttachments(ctx context.Context, attachments []string, ownedCircles []model.Circle) error {
	ownedPrefixes := make([]string, 0, len(ownedCircles))
	for _, c := range ownedCircles {
		ownedPrefixes = append(ownedPrefixes, util.CircleObjectPrefix(c.ID))
	}

	var pending []string
	for _, raw := range attachments {
		name := attachmentObjectKey(raw)
		if name == "" {
			continue
		}
		covered := false
		for _, prefix := range ownedPrefixes {
			if strings.HasPrefix(name, prefix) {
				covered = true
				break
			}
		}
		if !covered {
			pending = append(pending, name)
		}
	}

	for start := 0; start < len(pending); start += s.StorageBatchSize {
		end := start + s.StorageBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		for _, name := range pending[start:end] {
			if err := s.Storage.Delete(ctx, name); err != nil {
				return fmt.Errorf("remove attachment %s: %w", name, err)
			}
		}
	}
	return nil
}

// attachmentObjectKey 从存储层的访问 URL 还原对象键。本地、MinIO、OSS
// 三种后端的 URL 形态不同，但都以对象键结尾，聊天附件的键一定带圈子
// 上传前缀。认不出前缀的值（比如外链）没有对应对象，直接跳过。
func attachmentObjectKey(raw string) string {
	if idx := strings.Index(raw, util.CircleUploadPrefix); idx >= 0 {
		return raw[idx:]
	}
	return ""
}

// deleteByIDChunks 按外键分批删除，IN 列表不超过 RowBatchSize
func (s *AccountDeletionService) deleteByIDChunks(tx *gorm.DB, modelPtr interface{}, column string, ids []string) error {
	for start := 0; start < len(ids); start += s.RowBatchSize {
		end := start + s.RowBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := tx.Unscoped().Where(column+" IN ?", ids[start:end]).Delete(modelPtr).Error; err != nil {
			return err
		}
	}
	return nil
}
