package repository_test

import (
	"context"
	"database/sql"
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

func TestPostgresTokenRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`)).
		WithArgs(userID, "tok", expiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = r.Create(context.Background(), &model.AuthToken{UserID: userID, Token: "tok", ExpiresAt: expiresAt})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_FindValid_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
		AddRow(int64(1), userID, "tok", now.Add(time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token, expires_at, created_at FROM user_tokens WHERE token = $1 AND expires_at > now()`)).
		WithArgs("tok").WillReturnRows(rows)

	got, err := r.FindValid(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, userID, got.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// An expired token never matches the expires_at predicate, so the lookup
// surfaces sql.ErrNoRows exactly like an unknown token.
func TestPostgresTokenRepository_FindValid_ExpiredOrMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresTokenRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token, expires_at, created_at FROM user_tokens WHERE token = $1 AND expires_at > now()`)).
		WithArgs("abc").WillReturnError(sql.ErrNoRows)

	_, err = r.FindValid(context.Background(), "abc")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresTokenRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_tokens WHERE token = $1`)).
		WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Delete(context.Background(), "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}
