package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/events"
	"campuscollab/internal/pkg/apperror"
	"campuscollab/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
	users   map[int64]*domain.User
	created []*domain.Notification
}

func (m *mockStore) CreateNotification(ctx context.Context, n *domain.Notification) error {
	n.ID = int64(len(m.created) + 1)
	m.created = append(m.created, n)
	return nil
}

func (m *mockStore) ListNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) MarkRead(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockStore) MarkAllRead(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockStore) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	return m.users, nil
}

type recordingPusher struct {
	mu     sync.Mutex
	pushed map[int64]int
}

func (p *recordingPusher) Push(userID int64, v any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pushed == nil {
		p.pushed = map[int64]int{}
	}
	p.pushed[userID]++
	return true
}

func TestHandleBookingCompleted_NotifiesBothParties(t *testing.T) {
	st := &mockStore{users: map[int64]*domain.User{
		20: {ID: 20, DisplayName: "Sam"},
		10: {ID: 10, DisplayName: "Tia"},
	}}
	pusher := &recordingPusher{}
	svc := NewService(st, pusher, zerolog.Nop())

	err := svc.HandleBookingCompleted(context.Background(), events.BookingCompleted{BookingID: 5, SkillID: 1, StudentID: 20, TutorID: 10})

	require.NoError(t, err)
	require.Len(t, st.created, 2)

	byUser := map[int64]*domain.Notification{}
	for _, n := range st.created {
		byUser[n.UserID] = n
		assert.Equal(t, domain.NotifBookingCompleted, n.Type)
		assert.Equal(t, int64(5), n.Data["bookingId"])
		assert.False(t, n.Read)
	}
	assert.Equal(t, "Your session with Tia is completed. Please leave a review!", byUser[20].Message)
	assert.Equal(t, "Your session with Sam is completed. Please leave a review!", byUser[10].Message)
	assert.Equal(t, map[int64]int{20: 1, 10: 1}, pusher.pushed)
}

func TestHandleBookingCompleted_MissingPartySkips(t *testing.T) {
	st := &mockStore{users: map[int64]*domain.User{20: {ID: 20}}}
	svc := NewService(st, &recordingPusher{}, zerolog.Nop())

	err := svc.HandleBookingCompleted(context.Background(), events.BookingCompleted{BookingID: 5, StudentID: 20, TutorID: 10})

	require.NoError(t, err)
	assert.Empty(t, st.created)
}

func TestList_ClampsLimit(t *testing.T) {
	st := &mockStore{}
	svc := NewService(st, nil, zerolog.Nop())
	ctx := context.Background()

	st.On("ListNotifications", ctx, int64(4), MaxListLimit).Return([]domain.Notification{{ID: 1}}, nil)
	st.On("CountUnread", ctx, int64(4)).Return(int64(1), nil)

	list, unread, err := svc.List(ctx, 4, 1000)

	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
}

func TestMarkRead_NotFound(t *testing.T) {
	st := &mockStore{}
	svc := NewService(st, nil, zerolog.Nop())
	ctx := context.Background()

	st.On("MarkRead", ctx, int64(4), int64(9)).Return(store.ErrNotFound)

	err := svc.MarkRead(ctx, 4, 9)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCleanup_UsesRetention(t *testing.T) {
	st := &mockStore{}
	svc := NewService(st, nil, zerolog.Nop())
	ctx := context.Background()

	st.On("DeleteReadBefore", ctx, mock.MatchedBy(func(before time.Time) bool {
		age := time.Since(before)
		return age >= 48*time.Hour && age < 49*time.Hour
	})).Return(int64(3), nil)

	n, err := svc.Cleanup(ctx, 48*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNewCleanupJob_RejectsBadSchedule(t *testing.T) {
	svc := NewService(&mockStore{}, nil, zerolog.Nop())

	_, err := NewCleanupJob(svc, "not a schedule", time.Hour, zerolog.Nop())
	assert.Error(t, err)

	job, err := NewCleanupJob(svc, "0 3 * * *", time.Hour, zerolog.Nop())
	require.NoError(t, err)
	job.Start()
	job.Stop(context.Background())
}
