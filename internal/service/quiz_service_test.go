package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMailer 记录发信参数，可配置成失败
type stubMailer struct {
	sent []string
	fail bool
}

func (m *stubMailer) Send(to, subject, htmlBody string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, to)
	return nil
}

func TestQuizSubmitPersistsAndSendsEmail(t *testing.T) {
	db := openTestDB(t)
	mailer := &stubMailer{}
	svc := NewQuizService(repository.NewQuizRepository(db), repository.NewProfileRepository(db), mailer, "ops@circlemeet.local")

	submission, err := svc.Submit(nil, uniformAnswers("C"), Participant{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)

	assert.True(t, submission.EmailSent)
	assert.Equal(t, model.EmailStatusSent, submission.EmailStatus)
	assert.Equal(t, StyleSocialSpark, submission.Result.StyleTag)
	assert.Equal(t, []string{"ops@circlemeet.local"}, mailer.sent)

	var stored model.QuizResult
	require.NoError(t, db.First(&stored, "id = ?", submission.ResultID).Error)
	assert.Equal(t, model.EmailStatusSent, stored.EmailStatus)
	assert.Equal(t, QuizVersion, stored.QuizVersion)
	assert.Equal(t, 100, stored.Dimensions["stimulation"])
}

func TestQuizSubmitEmailFailureKeepsResult(t *testing.T) {
	db := openTestDB(t)
	mailer := &stubMailer{fail: true}
	svc := NewQuizService(repository.NewQuizRepository(db), repository.NewProfileRepository(db), mailer, "ops@circlemeet.local")

	submission, err := svc.Submit(nil, uniformAnswers("A"), Participant{Name: "Ben"})
	require.NoError(t, err)

	// 邮件失败只体现在状态上，存档照常
	assert.False(t, submission.EmailSent)
	assert.Equal(t, model.EmailStatusFailed, submission.EmailStatus)

	var stored model.QuizResult
	require.NoError(t, db.First(&stored, "id = ?", submission.ResultID).Error)
	assert.Equal(t, model.EmailStatusFailed, stored.EmailStatus)
	assert.Equal(t, StyleDeepConnector, stored.StyleTag)
}

func TestQuizSubmitUpdatesProfileStyleTag(t *testing.T) {
	db := openTestDB(t)
	user := &model.User{Name: "Cara", Email: "cara@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.Profile{UserID: user.ID, DisplayName: "Cara"}).Error)

	svc := NewQuizService(repository.NewQuizRepository(db), repository.NewProfileRepository(db), &stubMailer{}, "")

	_, err := svc.Submit(&user.ID, uniformAnswers("C"), Participant{Name: "Cara", Email: "cara@example.com"})
	require.NoError(t, err)

	var profile model.Profile
	require.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
	assert.Equal(t, StyleSocialSpark, profile.StyleTag)
}

func TestQuizPreviewIncompleteReturnsNil(t *testing.T) {
	svc := &QuizService{}

	assert.Nil(t, svc.Preview(nil))
	assert.Nil(t, svc.Preview(map[string]string{"Q1": "A"}))

	outcome := svc.Preview(uniformAnswers("B"))
	require.NotNil(t, outcome)
	assert.Equal(t, StyleBalancedConnector, outcome.StyleTag)
}

func TestQuizSubmitRejectsBadAnswers(t *testing.T) {
	db := openTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db), repository.NewProfileRepository(db), &stubMailer{}, "")

	_, err := svc.Submit(nil, map[string]string{"Q1": "A"}, Participant{})
	assert.Error(t, err)

	assert.EqualValues(t, 0, countRows(t, db, &model.QuizResult{}, ""))
}
