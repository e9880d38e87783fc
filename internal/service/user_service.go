package service

import (
	"circlemeet_backend/internal/model"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.ProfileRepository
	RatingRepo  *repository.RatingRepository
	Storage     *StorageService
}

func NewUserService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, ratingRepo *repository.RatingRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		RatingRepo:  ratingRepo,
		Storage:     storage,
	}
}

// ProfileView 资料页聚合：资料行 + 互评均分
type ProfileView struct {
	Profile     *model.Profile `json:"profile"`
	AvgRating   float64        `json:"avgRating"`
	RatingCount int64          `json:"ratingCount"`
}

func (s *UserService) GetProfile(userID uint) (*ProfileView, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 老账号可能没有资料行，现场补一条空白的
			profile = &model.Profile{UserID: userID}
			if err := s.ProfileRepo.Upsert(profile); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	avg, count, err := s.RatingRepo.AverageForUser(userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: profile, AvgRating: avg, RatingCount: count}, nil
}

// ProfileUpdate 可更新的资料字段
type ProfileUpdate struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	City        string `json:"city"`
	Age         int    `json:"age"`
	Interests   string `json:"interests"`
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.Profile, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = &model.Profile{UserID: userID}
	}

	profile.DisplayName = update.DisplayName
	profile.Bio = update.Bio
	profile.City = update.City
	profile.Age = update.Age
	profile.Interests = update.Interests

	if err := s.ProfileRepo.Upsert(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar 头像统一存到 avatars/{userID}/ 目录，注销时整目录清掉
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s%d_%s.png",
		util.AvatarObjectPrefix(userID), time.Now().Unix(), uuid.New().String()[:8])

	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
