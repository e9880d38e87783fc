package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"circlemeet_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type RatingService struct {
	RatingRepo  *repository.RatingRepository
	ProfileRepo *repository.ProfileRepository
	ReportRepo  *repository.ReportRepository
	Redis       *redis.Client
	ctx         context.Context
}

func NewRatingService(ratingRepo *repository.RatingRepository, profileRepo *repository.ProfileRepository, reportRepo *repository.ReportRepository, rdb *redis.Client) *RatingService {
	return &RatingService{
		RatingRepo:  ratingRepo,
		ProfileRepo: profileRepo,
		ReportRepo:  reportRepo,
		Redis:       rdb,
		ctx:         context.Background(),
	}
}

// Rate 1-5 分互评，对同一个人每天限一次，打完分刷新对方的信誉分
func (s *RatingService) Rate(raterID, rateeID uint, score int, comment string) (*model.Rating, error) {
	if raterID == rateeID {
		return nil, errors.New("cannot rate yourself")
	}
	if score < 1 || score > 5 {
		return nil, errors.New("score must be between 1 and 5")
	}

	allowed, err := s.checkDailyLimit(raterID, rateeID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, util.ErrDailyRatingLimit
	}

	rating := &model.Rating{
		RaterID: raterID,
		RateeID: rateeID,
		Score:   score,
		Comment: comment,
	}
	if err := s.RatingRepo.Create(rating); err != nil {
		return nil, err
	}

	avg, _, err := s.RatingRepo.AverageForUser(rateeID)
	if err == nil {
		if err := s.ProfileRepo.UpdateReputation(rateeID, avg); err != nil {
			logger.Log.Warn("更新信誉分失败", zap.Uint("userId", rateeID), zap.Error(err))
		}
	}
	return rating, nil
}

// checkDailyLimit redis INCR + 当天过期做限频，redis 不可用回落到数据库计数
func (s *RatingService) checkDailyLimit(raterID, rateeID uint) (bool, error) {
	if s.Redis != nil {
		key := fmt.Sprintf("rating:daily:%d:%d:%s", raterID, rateeID, time.Now().Format(util.DateFormat))
		count, err := s.Redis.Incr(s.ctx, key).Result()
		if err == nil {
			if count == 1 {
				s.Redis.Expire(s.ctx, key, 24*time.Hour)
			}
			return count <= 1, nil
		}
		logger.Log.Warn("评分限频 redis 不可用，回落数据库计数", zap.Error(err))
	}

	count, err := s.RatingRepo.CountToday(raterID, rateeID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *RatingService) ListForUser(rateeID uint, limit, offset int) ([]model.Rating, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.RatingRepo.ListForUser(rateeID, limit, offset)
}

func (s *RatingService) Report(reporterID, reportedID uint, reason, details string) (*model.Report, error) {
	if reporterID == reportedID {
		return nil, errors.New("cannot report yourself")
	}
	report := &model.Report{
		ReporterID: reporterID,
		ReportedID: reportedID,
		Reason:     reason,
		Details:    details,
	}
	if err := s.ReportRepo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *RatingService) MyReports(reporterID uint) ([]model.Report, error) {
	return s.ReportRepo.ListByReporter(reporterID)
}
