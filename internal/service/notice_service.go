package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/repository"
)

type NoticeService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Notice, int, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
}

type noticeService struct {
	noticeRepo repository.NoticeRepository
}

func NewNoticeService(noticeRepo repository.NoticeRepository) NoticeService {
	return &noticeService{noticeRepo: noticeRepo}
}

// List returns the user's notices in stored order together with the unread
// count, computed against the same ownership predicate.
func (s *noticeService) List(ctx context.Context, userID uuid.UUID) ([]model.Notice, int, error) {
	notices, err := s.noticeRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.noticeRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return notices, unread, nil
}

// MarkRead transitions the given notices to read and reports how many rows
// actually changed. Ids that do not exist or belong to another user are
// ignored, never an error; repeating the call is a no-op for ids already
// read.
func (s *noticeService) MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	return s.noticeRepo.MarkRead(ctx, userID, ids)
}
