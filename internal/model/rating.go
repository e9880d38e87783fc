package model

// Rating 聚会后成员互评，1-5 分，同一目标每天限一次
type Rating struct {
	BaseModel
	RaterID uint   `gorm:"index:idx_rater_ratee;not null" json:"raterId"`
	RateeID uint   `gorm:"index:idx_rater_ratee;index;not null" json:"rateeId"`
	Score   int    `gorm:"not null" json:"score"`
	Comment string `gorm:"size:255" json:"comment"`
}

func (Rating) TableName() string {
	return "ratings"
}

// Report 举报记录
type Report struct {
	UUIDBase
	ReporterID uint   `gorm:"index;not null" json:"reporterId"`
	ReportedID uint   `gorm:"index;not null" json:"reportedId"`
	Reason     string `gorm:"size:100;not null" json:"reason"`
	Details    string `gorm:"size:1000" json:"details"`
	Status     string `gorm:"size:20;default:'open'" json:"status"` // open/resolved/dismissed
}

func (Report) TableName() string {
	return "reports"
}
