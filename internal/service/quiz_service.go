package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/pkg/logger"
	"circlemeet_backend/pkg/monitoring"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Participant 问卷提交人填写的联系信息
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
	City  string `json:"city"`
	Bio   string `json:"bio"`
}

// QuizSubmission 一次提交的处理结果
type QuizSubmission struct {
	ResultID    string            `json:"quiz_result_id"`
	EmailSent   bool              `json:"email_sent"`
	EmailStatus string            `json:"email_status"`
	Result      *model.QuizResult `json:"result"`
}

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	ProfileRepo *repository.ProfileRepository
	Mailer      Mailer
	NotifyTo    string
}

func NewQuizService(quizRepo *repository.QuizRepository, profileRepo *repository.ProfileRepository, mailer Mailer, notifyTo string) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		ProfileRepo: profileRepo,
		Mailer:      mailer,
		NotifyTo:    notifyTo,
	}
}

func (s *QuizService) ListQuestions() ([]model.QuizQuestion, error) {
	return s.QuizRepo.ListQuestions()
}

// Preview 实时预览：输入不完整时返回 nil 而不是报错
func (s *QuizService) Preview(answers map[string]string) *QuizOutcome {
	if !IsCompleteAnswers(answers) {
		return nil
	}
	outcome, err := ScoreQuiz(answers)
	if err != nil {
		return nil
	}
	return outcome
}

// Submit 打分、存档、发通知邮件。邮件失败不影响存档，
// 只把 email_status 记成 email_send_failed。
func (s *QuizService) Submit(userID *uint, answers map[string]string, participant Participant) (*QuizSubmission, error) {
	outcome, err := ScoreQuiz(answers)
	if err != nil {
		return nil, err
	}

	result := &model.QuizResult{
		UserID:           userID,
		QuizVersion:      QuizVersion,
		Answers:          answers,
		Scores:           outcome.Scores,
		Dimensions:       outcome.Dimensions,
		Labels:           outcome.Labels,
		StyleTag:         outcome.StyleTag,
		EmailStatus:      model.EmailStatusPending,
		ParticipantName:  participant.Name,
		ParticipantEmail: participant.Email,
		ParticipantAge:   participant.Age,
		ParticipantCity:  participant.City,
		ParticipantBio:   participant.Bio,
	}

	if err := s.QuizRepo.CreateResult(result); err != nil {
		return nil, fmt.Errorf("persist quiz result: %w", err)
	}

	// 登录用户顺带刷新资料页上的风格标签
	if userID != nil {
		if err := s.ProfileRepo.UpdateStyleTag(*userID, outcome.StyleTag); err != nil {
			logger.Log.Warn("update profile style tag failed",
				zap.Uint("userId", *userID), zap.Error(err))
		}
	}

	emailStatus := model.EmailStatusSent
	emailSent := true
	if err := s.sendSummaryEmail(result); err != nil {
		logger.Log.Warn("quiz summary email failed", zap.String("resultId", result.ID), zap.Error(err))
		emailStatus = model.EmailStatusFailed
		emailSent = false
	}

	if err := s.QuizRepo.UpdateEmailStatus(result.ID, emailStatus); err != nil {
		return nil, fmt.Errorf("update email status: %w", err)
	}
	result.EmailStatus = emailStatus
	monitoring.QuizSubmissions.WithLabelValues(emailStatus).Inc()

	return &QuizSubmission{
		ResultID:    result.ID,
		EmailSent:   emailSent,
		EmailStatus: emailStatus,
		Result:      result,
	}, nil
}

func (s *QuizService) History(userID uint) ([]model.QuizResult, error) {
	return s.QuizRepo.ListResultsByUser(userID)
}

func (s *QuizService) sendSummaryEmail(result *model.QuizResult) error {
	to := s.NotifyTo
	if to == "" {
		to = result.ParticipantEmail
	}
	if to == "" {
		return fmt.Errorf("no recipient configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>新的社交节奏问卷提交</h2>")
	fmt.Fprintf(&b, "<p>%s（%s，%s）</p>", result.ParticipantName, result.ParticipantEmail, result.ParticipantCity)
	fmt.Fprintf(&b, "<p>风格：<b>%s</b>（%s）</p>", result.StyleTag, result.QuizVersion)
	fmt.Fprintf(&b, "<ul>")
	for dim, value := range result.Dimensions {
		fmt.Fprintf(&b, "<li>%s: %d（%s）</li>", dim, value, result.Labels[dim])
	}
	fmt.Fprintf(&b, "</ul>")

	return s.Mailer.Send(to, "CircleMeet 问卷提交: "+result.StyleTag, b.String())
}
