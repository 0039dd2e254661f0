package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/pkg/apperror"
	"dream-journal-be/internal/repository/specification"
	"dream-journal-be/internal/repository/unitofwork"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetStats(ctx context.Context, userId uuid.UUID) (*dto.UserStatsResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}

	res := &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		Language:  user.Language,
		Timezone:  user.Timezone,
		CreatedAt: user.CreatedAt,
	}

	provider, err := uow.UserRepository().FindUserProviderByUserId(ctx, userId)
	if err == nil && provider != nil {
		res.AvatarURL = provider.AvatarURL
	}

	return res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Timezone != "" {
		if _, tzErr := time.LoadLocation(req.Timezone); tzErr != nil {
			return nil, apperror.Validation("timezone", "unknown timezone")
		}
		user.Timezone = req.Timezone
	}
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		Language:  user.Language,
		Timezone:  user.Timezone,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) GetStats(ctx context.Context, userId uuid.UUID) (*dto.UserStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.UserStatsRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &dto.UserStatsResponse{}, nil
	}

	return &dto.UserStatsResponse{
		TotalDreams:         stats.TotalDreams,
		CurrentStreak:       stats.CurrentStreak,
		LongestStreak:       stats.LongestStreak,
		LastDreamDate:       stats.LastDreamDate,
		FavoriteSymbol:      stats.FavoriteSymbol,
		FavoriteSymbolCount: stats.FavoriteSymbolCount,
	}, nil
}
