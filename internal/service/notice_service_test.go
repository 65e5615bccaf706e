package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/service"
)

// fakeNoticeRepo mirrors the notices table semantics in memory: MarkRead
// only touches unread rows owned by the calling user.
type fakeNoticeRepo struct {
	notices map[int64]*model.Notice
	nextID  int64
}

func newFakeNoticeRepo() *fakeNoticeRepo {
	return &fakeNoticeRepo{notices: map[int64]*model.Notice{}, nextID: 1}
}

func (f *fakeNoticeRepo) add(userID uuid.UUID, message string, read bool) *model.Notice {
	n := &model.Notice{ID: f.nextID, UserID: userID, Message: message, CreatedAt: time.Now()}
	if read {
		now := time.Now()
		n.ReadAt = &now
	}
	f.notices[n.ID] = n
	f.nextID++
	return n
}

func (f *fakeNoticeRepo) Create(ctx context.Context, notice *model.Notice) (*model.Notice, error) {
	created := f.add(notice.UserID, notice.Message, false)
	notice.ID = created.ID
	notice.CreatedAt = created.CreatedAt
	return notice, nil
}

func (f *fakeNoticeRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Notice, error) {
	var out []model.Notice
	for id := int64(1); id < f.nextID; id++ {
		if n, ok := f.notices[id]; ok && n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNoticeRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notices {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeNoticeRepo) MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	var affected int64
	now := time.Now()
	for _, id := range ids {
		n, ok := f.notices[id]
		if !ok || n.UserID != userID || n.ReadAt != nil {
			continue
		}
		n.ReadAt = &now
		affected++
	}
	return affected, nil
}

func TestNoticeService_List_UnreadCountMatches(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := service.NewNoticeService(repo)

	userID := uuid.New()
	repo.add(userID, "one", false)
	repo.add(userID, "two", false)
	repo.add(userID, "three", true)

	notices, unread, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, notices, 3)
	require.Equal(t, 2, unread)

	manual := 0
	for _, n := range notices {
		if !n.IsRead() {
			manual++
		}
	}
	require.Equal(t, manual, unread)
}

// Matches the inbox scenario: ids covering an unread notice, an already
// read notice and a nonexistent id succeed, and only the unread notice
// transitions.
func TestNoticeService_MarkRead_PartialSet(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := service.NewNoticeService(repo)

	userID := uuid.New()
	n1 := repo.add(userID, "one", false)
	n2 := repo.add(userID, "two", false)
	n3 := repo.add(userID, "three", true)

	updated, err := svc.MarkRead(context.Background(), userID, []int64{n1.ID, n3.ID, 99})
	require.NoError(t, err)
	require.Equal(t, int64(1), updated)

	_, unread, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 1, unread) // only n2 remains unread
	require.False(t, repo.notices[n2.ID].IsRead())
	require.True(t, repo.notices[n1.ID].IsRead())
}

func TestNoticeService_MarkRead_Idempotent(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := service.NewNoticeService(repo)

	userID := uuid.New()
	n1 := repo.add(userID, "one", false)

	updated, err := svc.MarkRead(context.Background(), userID, []int64{n1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), updated)

	firstReadAt := *repo.notices[n1.ID].ReadAt

	updated, err = svc.MarkRead(context.Background(), userID, []int64{n1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(0), updated)
	require.Equal(t, firstReadAt, *repo.notices[n1.ID].ReadAt)
}

func TestNoticeService_MarkRead_NeverTouchesOtherUsers(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := service.NewNoticeService(repo)

	userA := uuid.New()
	userB := uuid.New()
	foreign := repo.add(userB, "belongs to B", false)

	updated, err := svc.MarkRead(context.Background(), userA, []int64{foreign.ID})
	require.NoError(t, err)
	require.Equal(t, int64(0), updated)
	require.False(t, repo.notices[foreign.ID].IsRead())
}
