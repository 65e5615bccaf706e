package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
)

type AchievementRepository interface {
	Create(ctx context.Context, achievement *model.Achievement) (*model.Achievement, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error)
}

type postgresAchievementRepository struct {
	db *sqlx.DB
}

func NewPostgresAchievementRepository(db *sqlx.DB) AchievementRepository {
	return &postgresAchievementRepository{db: db}
}

func (r *postgresAchievementRepository) Create(ctx context.Context, achievement *model.Achievement) (*model.Achievement, error) {
	query := `
		INSERT INTO achievements (user_id, title, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, achieved_at
	`

	row := r.db.QueryRowxContext(ctx, query, achievement.UserID, achievement.Title, achievement.StartTime, achievement.EndTime)
	err := row.Scan(&achievement.ID, &achievement.AchievedAt)

	if err != nil {
		return nil, err
	}

	return achievement, nil
}

func (r *postgresAchievementRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error) {
	achievements := []model.Achievement{}
	query := `SELECT id, user_id, title, start_time, end_time, achieved_at FROM achievements WHERE user_id = $1 ORDER BY id`
	err := r.db.SelectContext(ctx, &achievements, query, userID)

	if err != nil {
		return nil, err
	}

	return achievements, nil
}
