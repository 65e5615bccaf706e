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

func TestPostgresNoticeRepository_ListByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresNoticeRepository(sqlxDB)

	userID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "message", "read_at", "created_at"}).
		AddRow(int64(1), userID, "first", nil, now).
		AddRow(int64(2), userID, "second", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, message, read_at, created_at FROM notices WHERE user_id = $1 ORDER BY id`)).
		WithArgs(userID).WillReturnRows(rows)

	notices, err := r.ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	require.False(t, notices[0].IsRead())
	require.True(t, notices[1].IsRead())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNoticeRepository_CountUnread(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresNoticeRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notices WHERE user_id = $1 AND read_at IS NULL`)).
		WithArgs(userID).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := r.CountUnread(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The update predicate carries the whole contract: ownership, membership
// and the unread guard. Ids outside the user's set or already read simply
// do not count toward the affected rows.
func TestPostgresNoticeRepository_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresNoticeRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notices SET read_at = now() WHERE user_id = $1 AND id = ANY($2) AND read_at IS NULL`)).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := r.MarkRead(context.Background(), userID, []int64{1, 3, 99})
	require.NoError(t, err)
	require.Equal(t, int64(1), updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNoticeRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresNoticeRepository(sqlxDB)

	userID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO notices (user_id, message)
		VALUES ($1, $2)
		RETURNING id, created_at
	`)).WithArgs(userID, "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	notice, err := r.Create(context.Background(), &model.Notice{UserID: userID, Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, int64(7), notice.ID)
	require.False(t, notice.IsRead())
	require.NoError(t, mock.ExpectationsWereMet())
}
