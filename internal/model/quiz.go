package model

// QuizQuestion 社交节奏问卷题目，启动时内置 8 题（Q1-Q8），选项固定三档
type QuizQuestion struct {
	BaseModel
	Code    string `gorm:"size:10;uniqueIndex;not null" json:"code"` // Q1..Q8
	Prompt  string `gorm:"size:255;not null" json:"prompt"`
	OptionA string `gorm:"size:100" json:"optionA"`
	OptionB string `gorm:"size:100" json:"optionB"`
	OptionC string `gorm:"size:100" json:"optionC"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// 邮件通知的生命周期状态
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "email_send_failed"
)

// QuizResult 一次问卷提交的完整存档，写入后不再修改（email_status 除外）
type QuizResult struct {
	UUIDBase
	UserID      *uint             `gorm:"index" json:"userId"` // 预览场景可为空
	QuizVersion string            `gorm:"size:30;not null" json:"quizVersion"`
	Answers     map[string]string `gorm:"serializer:json;type:json" json:"answers"`
	Scores      map[string]int    `gorm:"serializer:json;type:json" json:"scores"`
	Dimensions  map[string]int    `gorm:"serializer:json;type:json" json:"dimensions"`
	Labels      map[string]string `gorm:"serializer:json;type:json" json:"labels"`
	StyleTag    string            `gorm:"size:50;index" json:"styleTag"`
	EmailStatus string            `gorm:"size:30;default:'pending'" json:"emailStatus"`

	// 提交人填写的联系信息
	ParticipantName  string `gorm:"size:100" json:"participantName"`
	ParticipantEmail string `gorm:"size:100" json:"participantEmail"`
	ParticipantAge   int    `gorm:"default:0" json:"participantAge"`
	ParticipantCity  string `gorm:"size:100" json:"participantCity"`
	ParticipantBio   string `gorm:"size:500" json:"participantBio"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
