// 手动触发信誉分重算脚本
//
// 正常情况下信誉分在每次评分后增量更新。此脚本全量重算所有用户的
// 信誉分，用于批量导入数据或历史数据修复之后。
//
// 用法: go run scripts/recompute_reputation.go

package main

import (
	"circlemeet_backend/internal/config"
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/pkg/database"
	"circlemeet_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	ratingRepo := repository.NewRatingRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	var userIDs []uint
	if err := db.Model(&model.User{}).Pluck("id", &userIDs).Error; err != nil {
		log.Fatalf("读取用户列表失败: %v", err)
	}

	log.Printf("开始重算 %d 个用户的信誉分...", len(userIDs))
	updated := 0
	for _, userID := range userIDs {
		avg, count, err := ratingRepo.AverageForUser(userID)
		if err != nil {
			log.Printf("用户 %d 评分统计失败: %v", userID, err)
			continue
		}
		if count == 0 {
			continue
		}
		if err := profileRepo.UpdateReputation(userID, avg); err != nil {
			log.Printf("用户 %d 信誉分更新失败: %v", userID, err)
			continue
		}
		updated++
	}
	log.Printf("完成！共更新 %d 个用户", updated)
}
