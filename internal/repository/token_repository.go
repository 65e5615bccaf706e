package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.AuthToken) error
	FindValid(ctx context.Context, token string) (*model.AuthToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type postgresTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresTokenRepository(db *sqlx.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) Create(ctx context.Context, token *model.AuthToken) error {
	query := `INSERT INTO user_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, token.UserID, token.Token, token.ExpiresAt)
	return err
}

// FindValid returns the token row only when it exists and has not expired.
// An expired row is indistinguishable from a missing one: both surface as
// sql.ErrNoRows.
func (r *postgresTokenRepository) FindValid(ctx context.Context, token string) (*model.AuthToken, error) {
	var t model.AuthToken
	query := `SELECT id, user_id, token, expires_at, created_at FROM user_tokens WHERE token = $1 AND expires_at > now()`
	err := r.db.GetContext(ctx, &t, query, token)

	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *postgresTokenRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM user_tokens WHERE token = $1`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

func (r *postgresTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
