package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByLoginID(ctx context.Context, loginID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *UserUpdate) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	GetDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// UserUpdate carries the profile fields a user may change. Nil fields are
// left untouched.
type UserUpdate struct {
	ID       uuid.UUID
	Nickname *string
	Email    *string
	Birthday *time.Time
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	query := `INSERT INTO users (login_id, nickname, email, birthday, password_hash) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, user.LoginID, user.Nickname, user.Email, user.Birthday, user.PasswordHash).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT id, login_id, nickname, email, birthday, password_hash, email_verified_at, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByLoginID(ctx context.Context, loginID string) (*model.User, error) {
	var user model.User
	query := `SELECT id, login_id, nickname, email, birthday, password_hash, email_verified_at, created_at, updated_at FROM users WHERE login_id = $1`
	err := r.db.GetContext(ctx, &user, query, loginID)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, login_id, nickname, email, birthday, password_hash, email_verified_at, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, user *UserUpdate) error {
	var setClauses []string
	var args []interface{}
	argId := 1

	if user.Nickname != nil {
		setClauses = append(setClauses, fmt.Sprintf("nickname = $%d", argId))
		args = append(args, *user.Nickname)
		argId++
	}
	if user.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argId))
		args = append(args, *user.Email)
		argId++
	}
	if user.Birthday != nil {
		setClauses = append(setClauses, fmt.Sprintf("birthday = $%d", argId))
		args = append(args, *user.Birthday)
		argId++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argId)
	args = append(args, user.ID)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postgresUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	return err
}

// Delete removes the user row; tokens, achievements, notices and device
// tokens are removed by ON DELETE CASCADE.
func (r *postgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *postgresUserRepository) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO user_device_tokens (user_id, device_token)
		VALUES ($1, $2)
		ON CONFLICT (device_token) DO UPDATE SET user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	return err
}

func (r *postgresUserRepository) GetDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	query := `SELECT device_token FROM user_device_tokens WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &tokens, query, userID)
	return tokens, err
}
