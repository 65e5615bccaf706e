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

func TestPostgresUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (login_id, nickname, email, birthday, password_hash) VALUES ($1, $2, $3, $4, $5) RETURNING id`)).
		WithArgs("rabbit01", "Rabbit", "a@b.com", nil, "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	nid, err := r.Create(context.Background(), &model.User{LoginID: "rabbit01", Nickname: "Rabbit", Email: "a@b.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.Equal(t, id, nid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByLoginID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "login_id", "nickname", "email", "birthday", "password_hash", "email_verified_at", "created_at", "updated_at"}).
		AddRow(id, "rabbit01", "Rabbit", "a@b.com", nil, "hash", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login_id, nickname, email, birthday, password_hash, email_verified_at, created_at, updated_at FROM users WHERE login_id = $1`)).
		WithArgs("rabbit01").WillReturnRows(rows)

	u, err := r.FindByLoginID(context.Background(), "rabbit01")
	require.NoError(t, err)
	require.Equal(t, "rabbit01", u.LoginID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login_id, nickname, email, birthday, password_hash, email_verified_at, created_at, updated_at FROM users WHERE id = $1`)).
		WithArgs(sqlmock.AnyArg()).WillReturnError(sql.ErrNoRows)

	_, err = r.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Update_PartialFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	nickname := "New Rabbit"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET nickname = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(nickname, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = r.Update(context.Background(), &repo.UserUpdate{ID: id, Nickname: &nickname})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Update_NoFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	// no expectations: an empty update never touches the database
	err = r.Update(context.Background(), &repo.UserUpdate{ID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}
