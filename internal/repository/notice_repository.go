package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *model.Notice) (*model.Notice, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Notice, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
}

type postgresNoticeRepository struct {
	db *sqlx.DB
}

func NewPostgresNoticeRepository(db *sqlx.DB) NoticeRepository {
	return &postgresNoticeRepository{db: db}
}

func (r *postgresNoticeRepository) Create(ctx context.Context, notice *model.Notice) (*model.Notice, error) {
	query := `
		INSERT INTO notices (user_id, message)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, notice.UserID, notice.Message)
	err := row.Scan(&notice.ID, &notice.CreatedAt)

	if err != nil {
		return nil, err
	}

	return notice, nil
}

func (r *postgresNoticeRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Notice, error) {
	notices := []model.Notice{}
	query := `SELECT id, user_id, message, read_at, created_at FROM notices WHERE user_id = $1 ORDER BY id`
	err := r.db.SelectContext(ctx, &notices, query, userID)

	if err != nil {
		return nil, err
	}

	return notices, nil
}

func (r *postgresNoticeRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notices WHERE user_id = $1 AND read_at IS NULL`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

// MarkRead stamps read_at on every unread notice owned by userID whose id is
// in ids, as a single batch update. Ids that do not exist, belong to another
// user, or are already read simply do not match the predicate; the call
// reports how many rows actually transitioned.
func (r *postgresNoticeRepository) MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	query := `UPDATE notices SET read_at = now() WHERE user_id = $1 AND id = ANY($2) AND read_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, userID, ids)

	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
