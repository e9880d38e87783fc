package model

// Moment 圈子动态（活动照片、随手记）
type Moment struct {
	UUIDBase
	CircleID     string `gorm:"index;type:varchar(36);not null" json:"circleId"`
	AuthorID     uint   `gorm:"index;not null" json:"authorId"`
	Content      string `gorm:"size:1000" json:"content"`
	ImageURL     string `gorm:"size:255" json:"imageUrl"`
	VideoURL     string `gorm:"size:255" json:"videoUrl"`
	ThumbnailURL string `gorm:"size:255" json:"thumbnailUrl"`
}

func (Moment) TableName() string {
	return "moments"
}
