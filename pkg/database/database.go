package database

import (
	"circlemeet_backend/internal/config"
	"circlemeet_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	Seed(db)

	return db, nil
}

// Migrate 建表/补列。级联删除依赖这里的全部集合，新增集合时同步更新
// AccountDeletionService 的删除顺序。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.CircleCategory{},
		&model.CategoryRequest{},
		&model.Circle{},
		&model.CircleMember{},
		&model.CircleInvitation{},
		&model.Announcement{},
		&model.ReadMarker{},
		&model.LocationPing{},
		&model.Event{},
		&model.EventAttendee{},
		&model.Poll{},
		&model.PollOption{},
		&model.PollVote{},
		&model.Message{},
		&model.MessageReaction{},
		&model.MessageRead{},
		&model.DirectMessage{},
		&model.Moment{},
		&model.Friendship{},
		&model.FriendRequest{},
		&model.ReconnectRequest{},
		&model.Rating{},
		&model.Report{},
		&model.Notification{},
		&model.QuizQuestion{},
		&model.QuizResult{},
	)
}

// Seed 写入默认的圈子分类和社交节奏问卷题目
func Seed(db *gorm.DB) {
	var count int64
	db.Model(&model.CircleCategory{}).Count(&count)
	if count == 0 {
		defaultCategories := []model.CircleCategory{
			{Code: "outdoor", Name: "户外徒步", Description: "徒步、露营、骑行", Enabled: true},
			{Code: "boardgame", Name: "桌游", Description: "桌游、剧本杀", Enabled: true},
			{Code: "food", Name: "美食", Description: "探店、私房菜", Enabled: true},
			{Code: "reading", Name: "读书会", Description: "共读与分享", Enabled: true},
			{Code: "sports", Name: "运动", Description: "羽毛球、飞盘、慢跑", Enabled: true},
			{Code: "art", Name: "艺术", Description: "观展、手作、摄影", Enabled: true},
		}
		for _, c := range defaultCategories {
			db.Create(&c)
		}
	}

	var qCount int64
	db.Model(&model.QuizQuestion{}).Count(&qCount)
	if qCount == 0 {
		defaultQuestions := []model.QuizQuestion{
			{Code: "Q1", Prompt: "理想的聚会氛围是？", OptionA: "安静聊天", OptionB: "轻松热闹", OptionC: "越嗨越好"},
			{Code: "Q2", Prompt: "喜欢多少人的局？", OptionA: "3-4人小局", OptionB: "7-8人", OptionC: "15人以上大局"},
			{Code: "Q3", Prompt: "一场聚会多久合适？", OptionA: "一两个小时", OptionB: "半天", OptionC: "玩到尽兴为止"},
			{Code: "Q4", Prompt: "聚会中你通常？", OptionA: "倾听为主", OptionB: "聊到感兴趣就加入", OptionC: "主动带节奏"},
			{Code: "Q5", Prompt: "喜欢的活动安排？", OptionA: "提前定好流程", OptionB: "大致有个方向", OptionC: "随性说走就走"},
			{Code: "Q6", Prompt: "更想聊什么？", OptionA: "深入的话题", OptionB: "看场合", OptionC: "轻松段子"},
			{Code: "Q7", Prompt: "和新朋友相处？", OptionA: "慢热深交", OptionB: "顺其自然", OptionC: "自来熟玩起来"},
			{Code: "Q8", Prompt: "连着两天都有活动？", OptionA: "需要独处回血", OptionB: "看情况", OptionC: "完全没问题"},
		}
		for _, q := range defaultQuestions {
			db.Create(&q)
		}
	}
}
