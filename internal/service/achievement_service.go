package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/events"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/repository"
)

type CreateAchievementDTO struct {
	Title     string
	StartTime time.Time
	EndTime   *time.Time
}

type AchievementService interface {
	CreateAchievement(ctx context.Context, userID uuid.UUID, dto CreateAchievementDTO) (*model.Achievement, error)
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error)
}

type achievementService struct {
	achievementRepo repository.AchievementRepository
	publisher       events.EventPublisher
}

func NewAchievementService(repo repository.AchievementRepository, pub events.EventPublisher) AchievementService {
	return &achievementService{achievementRepo: repo, publisher: pub}
}

func (s *achievementService) CreateAchievement(ctx context.Context, userID uuid.UUID, dto CreateAchievementDTO) (*model.Achievement, error) {
	if dto.EndTime != nil && dto.EndTime.Before(dto.StartTime) {
		return nil, ErrEndBeforeStart
	}

	achievement := &model.Achievement{
		UserID:    userID,
		Title:     dto.Title,
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
	}

	created, err := s.achievementRepo.Create(ctx, achievement)

	if err != nil {
		return nil, err
	}

	go s.publisher.PublishAchievementLogged(created)

	return created, nil
}

func (s *achievementService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error) {
	return s.achievementRepo.ListByUserID(ctx, userID)
}
