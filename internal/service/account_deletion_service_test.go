package service

import (
	"bytes"
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"circlemeet_backend/pkg/database"
	"circlemeet_backend/pkg/logger"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fakeStorage 内存版对象存储。和真实后端一样，上传返回的是访问 URL
// 而不是对象键。
type fakeStorage struct {
	objects map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]string)}
}

func (s *fakeStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	s.objects[filename] = contentType
	return s.GetURL(filename), nil
}

func (s *fakeStorage) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	s.objects[filename] = contentType
	return s.GetURL(filename), nil
}

func (s *fakeStorage) Delete(ctx context.Context, filename string) error {
	delete(s.objects, filename)
	return nil
}

func (s *fakeStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *fakeStorage) RemovePrefix(ctx context.Context, prefix string) error {
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			delete(s.objects, name)
		}
	}
	return nil
}

func (s *fakeStorage) GetURL(filename string) string {
	return "/uploads/" + filename
}

// countRows 带条件数硬删之后剩下的行（含软删标记的）
func countRows(t *testing.T, db *gorm.DB, modelPtr interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	tx := db.Unscoped().Model(modelPtr)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&count).Error)
	return count
}

// cascadeFixture 要注销的账号是 alice。ownCircle 由她主持，
// otherCircle 由 bob 主持、alice 是成员。
type cascadeFixture struct {
	db      *gorm.DB
	storage *fakeStorage
	svc     *AccountDeletionService

	alice       *model.User
	bob         *model.User
	ownCircle   *model.Circle
	otherCircle *model.Circle
}

func buildCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()
	db := openTestDB(t)
	storage := newFakeStorage()

	alice := &model.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	bob := &model.User{Name: "Bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	require.NoError(t, db.Create(&model.Profile{UserID: alice.ID, DisplayName: "Alice"}).Error)
	require.NoError(t, db.Create(&model.Profile{UserID: bob.ID, DisplayName: "Bob"}).Error)

	own := &model.Circle{Name: "Alice's circle", HostID: alice.ID}
	other := &model.Circle{Name: "Bob's circle", HostID: bob.ID}
	require.NoError(t, db.Create(own).Error)
	require.NoError(t, db.Create(other).Error)

	members := []model.CircleMember{
		{CircleID: own.ID, UserID: alice.ID, Role: "host"},
		{CircleID: own.ID, UserID: bob.ID, Role: "member"},
		{CircleID: other.ID, UserID: bob.ID, Role: "host"},
		{CircleID: other.ID, UserID: alice.ID, Role: "member"},
	}
	require.NoError(t, db.Create(&members).Error)

	// alice 圈子里的完整子数据
	event := &model.Event{CircleID: own.ID, CreatorID: alice.ID, Title: "Picnic", StartsAt: time.Now()}
	require.NoError(t, db.Create(event).Error)
	require.NoError(t, db.Create(&model.EventAttendee{EventID: event.ID, UserID: bob.ID, Status: "going"}).Error)

	poll := &model.Poll{CircleID: own.ID, CreatorID: alice.ID, Question: "When?", Status: "open"}
	require.NoError(t, db.Create(poll).Error)
	option := &model.PollOption{PollID: poll.ID, Label: "Saturday"}
	require.NoError(t, db.Create(option).Error)
	require.NoError(t, db.Create(&model.PollVote{PollID: poll.ID, UserID: bob.ID, OptionID: option.ID}).Error)

	// bob 在 alice 圈子里发的消息，上面有 alice 的回应
	bobMsg := &model.Message{CircleID: own.ID, SenderID: &bob.ID, Type: "text", Content: "hi"}
	require.NoError(t, db.Create(bobMsg).Error)
	require.NoError(t, db.Create(&model.MessageReaction{MessageID: bobMsg.ID, UserID: alice.ID, Emoji: "👍"}).Error)
	require.NoError(t, db.Create(&model.MessageRead{MessageID: bobMsg.ID, UserID: alice.ID}).Error)

	require.NoError(t, db.Create(&model.Moment{CircleID: own.ID, AuthorID: bob.ID, Content: "fun"}).Error)
	require.NoError(t, db.Create(&model.Announcement{CircleID: own.ID, AuthorID: alice.ID, Title: "Welcome"}).Error)
	require.NoError(t, db.Create(&model.CircleInvitation{CircleID: own.ID, InviterID: alice.ID, InviteeID: bob.ID}).Error)
	require.NoError(t, db.Create(&model.ReadMarker{CircleID: own.ID, UserID: bob.ID, LastReadID: bobMsg.ID}).Error)
	require.NoError(t, db.Create(&model.LocationPing{CircleID: own.ID, UserID: bob.ID, Lat: 1, Lng: 2}).Error)

	// alice 在 bob 圈子里发的带附件消息，bob 给它加了回应。
	// 消息上记的是访问 URL，存储里对应的是对象键。
	attachmentKey := util.CircleObjectPrefix(other.ID) + "photo.jpg"
	aliceMsg := &model.Message{CircleID: other.ID, SenderID: &alice.ID, Type: "image", AttachmentURL: storage.GetURL(attachmentKey)}
	require.NoError(t, db.Create(aliceMsg).Error)
	require.NoError(t, db.Create(&model.MessageReaction{MessageID: aliceMsg.ID, UserID: bob.ID, Emoji: "🎉"}).Error)
	require.NoError(t, db.Create(&model.MessageRead{MessageID: aliceMsg.ID, UserID: bob.ID}).Error)

	// bob 自己圈子的消息不受影响
	bobOwnMsg := &model.Message{CircleID: other.ID, SenderID: &bob.ID, Type: "text", Content: "mine"}
	require.NoError(t, db.Create(bobOwnMsg).Error)

	// 双向个人记录
	require.NoError(t, db.Create(&model.Friendship{UserID: alice.ID, FriendID: bob.ID, Status: "accepted"}).Error)
	require.NoError(t, db.Create(&model.Friendship{UserID: bob.ID, FriendID: alice.ID, Status: "accepted"}).Error)
	require.NoError(t, db.Create(&model.FriendRequest{SenderID: bob.ID, ReceiverID: alice.ID, Status: "accepted"}).Error)
	require.NoError(t, db.Create(&model.ReconnectRequest{SenderID: alice.ID, ReceiverID: bob.ID}).Error)
	require.NoError(t, db.Create(&model.DirectMessage{SenderID: alice.ID, ReceiverID: bob.ID, Content: "hey"}).Error)
	require.NoError(t, db.Create(&model.DirectMessage{SenderID: bob.ID, ReceiverID: alice.ID, Content: "yo"}).Error)
	require.NoError(t, db.Create(&model.Rating{RaterID: alice.ID, RateeID: bob.ID, Score: 5}).Error)
	require.NoError(t, db.Create(&model.Rating{RaterID: bob.ID, RateeID: alice.ID, Score: 4}).Error)
	require.NoError(t, db.Create(&model.Report{ReporterID: bob.ID, ReportedID: alice.ID, Reason: "spam"}).Error)
	require.NoError(t, db.Create(&model.CategoryRequest{UserID: alice.ID, Name: "Chess"}).Error)
	require.NoError(t, db.Create(&model.Notification{UserID: alice.ID, Type: "invite", Title: "x"}).Error)
	require.NoError(t, db.Create(&model.Notification{UserID: bob.ID, Type: "invite", Title: "y"}).Error)
	require.NoError(t, db.Create(&model.QuizResult{UserID: &alice.ID, QuizVersion: QuizVersion, EmailStatus: model.EmailStatusSent}).Error)

	// 对象存储
	storage.objects[util.AvatarObjectPrefix(alice.ID)+"a.png"] = "image/png"
	storage.objects[util.AvatarObjectPrefix(bob.ID)+"b.png"] = "image/png"
	storage.objects[util.CircleObjectPrefix(own.ID)+"chat.bin"] = "application/octet-stream"
	storage.objects[attachmentKey] = "image/jpeg"

	userRepo := repository.NewUserRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db, nil)
	svc := NewAccountDeletionService(db, userRepo, friendshipRepo, storage, 2, 2)

	return &cascadeFixture{
		db:          db,
		storage:     storage,
		svc:         svc,
		alice:       alice,
		bob:         bob,
		ownCircle:   own,
		otherCircle: other,
	}
}

func TestAccountDeletionCascade(t *testing.T) {
	f := buildCascadeFixture(t)
	aliceID, bobID := f.alice.ID, f.bob.ID

	require.NoError(t, f.svc.Run(context.Background(), aliceID))

	// 身份和资料
	assert.EqualValues(t, 0, countRows(t, f.db, &model.User{}, "id = ?", aliceID))
	assert.EqualValues(t, 1, countRows(t, f.db, &model.User{}, "id = ?", bobID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Profile{}, "user_id = ?", aliceID))
	assert.EqualValues(t, 1, countRows(t, f.db, &model.Profile{}, "user_id = ?", bobID))

	// 名下圈子连同全部子数据
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Circle{}, "id = ?", f.ownCircle.ID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.CircleMember{}, "circle_id = ?", f.ownCircle.ID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Event{}, "circle_id = ?", f.ownCircle.ID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.EventAttendee{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Poll{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.PollOption{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.PollVote{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Message{}, "circle_id = ?", f.ownCircle.ID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Announcement{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Moment{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.CircleInvitation{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.ReadMarker{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.LocationPing{}, ""))

	// 别人圈子里的个人痕迹
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Message{}, "sender_id = ?", aliceID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.MessageReaction{}, "user_id = ?", aliceID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.MessageRead{}, "user_id = ?", aliceID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.CircleMember{}, "user_id = ?", aliceID))

	// alice 消息上 bob 的回应/已读也要跟着消失（子记录先删）
	assert.EqualValues(t, 0, countRows(t, f.db, &model.MessageReaction{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.MessageRead{}, ""))

	// bob 自己的消息保留
	assert.EqualValues(t, 1, countRows(t, f.db, &model.Message{}, "sender_id = ?", bobID))
	assert.EqualValues(t, 1, countRows(t, f.db, &model.Circle{}, "id = ?", f.otherCircle.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &model.CircleMember{}, "circle_id = ? AND user_id = ?", f.otherCircle.ID, bobID))

	// 双向记录全部清掉
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Friendship{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.FriendRequest{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.ReconnectRequest{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.DirectMessage{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Rating{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Report{}, ""))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.CategoryRequest{}, "user_id = ?", aliceID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.Notification{}, "user_id = ?", aliceID))
	assert.EqualValues(t, 1, countRows(t, f.db, &model.Notification{}, "user_id = ?", bobID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.QuizResult{}, "user_id = ?", aliceID))

	// 对象存储：alice 的前缀和散落附件清掉，bob 的保留
	aliceAvatars, _ := f.storage.List(context.Background(), util.AvatarObjectPrefix(aliceID))
	assert.Empty(t, aliceAvatars)
	ownUploads, _ := f.storage.List(context.Background(), util.CircleObjectPrefix(f.ownCircle.ID))
	assert.Empty(t, ownUploads)
	otherUploads, _ := f.storage.List(context.Background(), util.CircleObjectPrefix(f.otherCircle.ID))
	assert.Empty(t, otherUploads) // 唯一的对象是 alice 的附件
	bobAvatars, _ := f.storage.List(context.Background(), util.AvatarObjectPrefix(bobID))
	assert.Len(t, bobAvatars, 1)
}

func TestAccountDeletionSecondRunReportsMissingIdentity(t *testing.T) {
	f := buildCascadeFixture(t)

	require.NoError(t, f.svc.Run(context.Background(), f.alice.ID))

	// 重跑：所有集合已经空了，空转到最后一步才发现身份不存在
	err := f.svc.Run(context.Background(), f.alice.ID)
	assert.ErrorIs(t, err, util.ErrIdentityNotFound)

	// bob 的数据不能被重跑波及
	assert.EqualValues(t, 1, countRows(t, f.db, &model.User{}, "id = ?", f.bob.ID))
	assert.EqualValues(t, 1, countRows(t, f.db, &model.Circle{}, "id = ?", f.otherCircle.ID))
}

func TestAccountDeletionUnknownUser(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccountDeletionService(
		db,
		repository.NewUserRepository(db),
		repository.NewFriendshipRepository(db, nil),
		newFakeStorage(),
		500, 200,
	)

	err := svc.Run(context.Background(), 9999)
	assert.ErrorIs(t, err, util.ErrIdentityNotFound)
}

// 附件走正式上传链路时消息上存的是访问 URL，注销要能据此清掉存储对象
func TestAccountDeletionRemovesUploadedAttachments(t *testing.T) {
	f := buildCascadeFixture(t)

	msgSvc := NewMessageService(
		repository.NewMessageRepository(f.db),
		repository.NewCircleRepository(f.db),
		repository.NewFriendshipRepository(f.db, nil),
		&StorageService{Provider: f.storage},
	)

	url, _, err := msgSvc.UploadAttachment(context.Background(),
		f.otherCircle.ID, f.alice.ID, "clip.bin", bytes.NewReader(make([]byte, 32)), 32)
	require.NoError(t, err)
	require.Contains(t, url, util.CircleUploadPrefix)

	msg := &model.Message{CircleID: f.otherCircle.ID, SenderID: &f.alice.ID, Type: "file", AttachmentURL: url}
	require.NoError(t, f.db.Create(msg).Error)

	require.NoError(t, f.svc.Run(context.Background(), f.alice.ID))

	// bob 圈子的上传目录里只有 alice 的对象，应该一个不剩
	leftovers, err := f.storage.List(context.Background(), util.CircleObjectPrefix(f.otherCircle.ID))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestAccountDeletionChunksLargeMessageSets(t *testing.T) {
	f := buildCascadeFixture(t)

	// 超过 RowBatchSize(=2) 的消息量也要能分批清干净
	for i := 0; i < 7; i++ {
		msg := &model.Message{CircleID: f.ownCircle.ID, SenderID: &f.bob.ID, Type: "text", Content: "spam"}
		require.NoError(t, f.db.Create(msg).Error)
		require.NoError(t, f.db.Create(&model.MessageReaction{MessageID: msg.ID, UserID: f.alice.ID, Emoji: "🙂"}).Error)
	}

	require.NoError(t, f.svc.Run(context.Background(), f.alice.ID))

	assert.EqualValues(t, 0, countRows(t, f.db, &model.Message{}, "circle_id = ?", f.ownCircle.ID))
	assert.EqualValues(t, 0, countRows(t, f.db, &model.MessageReaction{}, ""))
}
