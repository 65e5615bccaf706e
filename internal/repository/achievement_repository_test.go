package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	repo "github.com/15-y-nakamura/support-rabbit-sub001/internal/repository"
)

func TestPostgresAchievementRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresAchievementRepository(sqlxDB)

	userID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO achievements (user_id, title, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, achieved_at
	`)).WithArgs(userID, "Morning run", sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "achieved_at"}).AddRow(int64(5), now))

	created, err := r.Create(context.Background(), &model.Achievement{
		UserID:    userID,
		Title:     "Morning run",
		StartTime: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), created.ID)
	require.WithinDuration(t, now, created.AchievedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAchievementRepository_ListByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresAchievementRepository(sqlxDB)

	userID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "start_time", "end_time", "achieved_at"}).
		AddRow(int64(1), userID, "Morning run", now.Add(-2*time.Hour), now.Add(-time.Hour), now).
		AddRow(int64(2), userID, "Study session", now.Add(-time.Hour), nil, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, title, start_time, end_time, achieved_at FROM achievements WHERE user_id = $1 ORDER BY id`)).
		WithArgs(userID).WillReturnRows(rows)

	achievements, err := r.ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, achievements, 2)
	require.NotNil(t, achievements[0].EndTime)
	require.Nil(t, achievements[1].EndTime)
	require.NoError(t, mock.ExpectationsWereMet())
}
