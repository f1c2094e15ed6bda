package review

import (
	"context"
	"errors"
	"testing"

	"campuscollab/internal/domain"
	"campuscollab/internal/pkg/apperror"
	"campuscollab/internal/rating"
	"campuscollab/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
	tx *MockTx
}

func (m *MockStore) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockStore) ListReviewsBySkill(ctx context.Context, skillID int64, limit, offset int) ([]domain.Review, int64, error) {
	args := m.Called(ctx, skillID, limit, offset)
	return args.Get(0).([]domain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) AtomicReview(ctx context.Context, fn func(tx store.ReviewTx) error) error {
	return fn(m.tx)
}

func (m *MockStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	return map[int64]*domain.User{
		20: {ID: 20, DisplayName: "Sam"},
	}, nil
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) RatingsFor(ctx context.Context, t rating.Target) ([]int, error) {
	args := m.Called(ctx, t)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockTx) SaveAggregate(ctx context.Context, t rating.Target, agg rating.Aggregate) error {
	return m.Called(ctx, t, agg).Error(0)
}

func (m *MockTx) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockTx) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockTx) GetReviewByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockTx) CreateReview(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	r.ID = 77
	return args.Error(0)
}

func (m *MockTx) UpdateReview(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockTx) DeleteReview(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func completedBooking() *domain.Booking {
	return &domain.Booking{ID: 5, SkillID: 1, StudentID: 20, TutorID: 10, Status: domain.BookingCompleted}
}

func newService() (*Service, *MockStore) {
	st := &MockStore{tx: &MockTx{}}
	return NewService(st), st
}

func expectRecompute(tx *MockTx, ctx context.Context, skillRatings, tutorRatings []int) {
	tx.On("RatingsFor", ctx, rating.Skill(1)).Return(skillRatings, nil)
	tx.On("RatingsFor", ctx, rating.User(10)).Return(tutorRatings, nil)
	tx.On("SaveAggregate", ctx, rating.Skill(1), rating.Compute(skillRatings)).Return(nil)
	tx.On("SaveAggregate", ctx, rating.User(10), rating.Compute(tutorRatings)).Return(nil)
}

func TestCreate_Success(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.tx.On("GetBooking", ctx, int64(5)).Return(completedBooking(), nil)
	st.tx.On("GetReviewByBooking", ctx, int64(5)).Return(nil, store.ErrNotFound)
	st.tx.On("CreateReview", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	expectRecompute(st.tx, ctx, []int{4, 5}, []int{4, 5, 3})

	rv, err := svc.Create(ctx, 20, CreateReviewRequest{BookingID: 5, Rating: 5, Comment: "Great lesson, thanks"})

	require.NoError(t, err)
	assert.Equal(t, int64(77), rv.ID)
	assert.Equal(t, int64(1), rv.SkillID)
	assert.Equal(t, int64(10), rv.TutorID)
	assert.Empty(t, rv.Upvotes)
	require.NotNil(t, rv.Student)
	assert.Equal(t, "Sam", rv.Student.DisplayName)
	st.tx.AssertExpectations(t)
}

func TestCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	req := CreateReviewRequest{BookingID: 5, Rating: 4, Comment: "Solid session overall"}

	tests := []struct {
		name    string
		userID  int64
		booking *domain.Booking
		getErr  error
		want    error
	}{
		{"missing booking", 20, nil, store.ErrNotFound, apperror.ErrNotFound},
		{"not the student", 10, completedBooking(), nil, apperror.ErrForbidden},
		{"not completed", 20, &domain.Booking{ID: 5, StudentID: 20, TutorID: 10, Status: domain.BookingConfirmed}, nil, apperror.ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newService()
			st.tx.On("GetBooking", ctx, int64(5)).Return(tt.booking, tt.getErr)

			_, err := svc.Create(ctx, tt.userID, req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			st.tx.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_AlreadyReviewed(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.tx.On("GetBooking", ctx, int64(5)).Return(completedBooking(), nil)
	st.tx.On("GetReviewByBooking", ctx, int64(5)).Return(&domain.Review{ID: 3}, nil)

	_, err := svc.Create(ctx, 20, CreateReviewRequest{BookingID: 5, Rating: 5, Comment: "Second attempt here"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))
	st.tx.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
}

func TestCreate_DuplicateOnInsert(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.tx.On("GetBooking", ctx, int64(5)).Return(completedBooking(), nil)
	st.tx.On("GetReviewByBooking", ctx, int64(5)).Return(nil, store.ErrNotFound)
	st.tx.On("CreateReview", ctx, mock.Anything).Return(store.ErrDuplicate)

	_, err := svc.Create(ctx, 20, CreateReviewRequest{BookingID: 5, Rating: 5, Comment: "Raced another request"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestUpdate_RatingTriggersRecompute(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.tx.On("GetReview", ctx, int64(77)).Return(&domain.Review{ID: 77, SkillID: 1, TutorID: 10, StudentID: 20, Rating: 5, Comment: "old comment here"}, nil)
	st.tx.On("UpdateReview", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	expectRecompute(st.tx, ctx, []int{3}, []int{3})

	r := 3
	rv, err := svc.Update(ctx, 20, 77, UpdateReviewRequest{Rating: &r})

	require.NoError(t, err)
	assert.Equal(t, 3, rv.Rating)
	assert.Equal(t, "old comment here", rv.Comment)
	st.tx.AssertExpectations(t)
}

func TestUpdate_CommentOnlySkipsRecompute(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.tx.On("GetReview", ctx, int64(77)).Return(&domain.Review{ID: 77, SkillID: 1, TutorID: 10, StudentID: 20, Rating: 5}, nil)
	st.tx.On("UpdateReview", ctx, mock.Anything).Return(nil)

	c := "a much longer comment"
	rv, err := svc.Update(ctx, 20, 77, UpdateReviewRequest{Comment: &c})

	require.NoError(t, err)
	assert.Equal(t, c, rv.Comment)
	st.tx.AssertNotCalled(t, "RatingsFor", mock.Anything, mock.Anything)
}

func TestUpdate_NotAuthor(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.tx.On("GetReview", ctx, int64(77)).Return(&domain.Review{ID: 77, StudentID: 20}, nil)

	r := 1
	_, err := svc.Update(ctx, 21, 77, UpdateReviewRequest{Rating: &r})
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("admin may delete", func(t *testing.T) {
		svc, st := newService()
		st.tx.On("GetReview", ctx, int64(77)).Return(&domain.Review{ID: 77, SkillID: 1, TutorID: 10, StudentID: 20}, nil)
		st.tx.On("DeleteReview", ctx, int64(77)).Return(nil)
		expectRecompute(st.tx, ctx, []int{}, []int{})

		require.NoError(t, svc.Delete(ctx, 1, "admin", 77))
		st.tx.AssertExpectations(t)
	})

	t.Run("stranger may not", func(t *testing.T) {
		svc, st := newService()
		st.tx.On("GetReview", ctx, int64(77)).Return(&domain.Review{ID: 77, StudentID: 20}, nil)

		err := svc.Delete(ctx, 30, "student", 77)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
		st.tx.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything)
	})

	t.Run("missing review", func(t *testing.T) {
		svc, st := newService()
		st.tx.On("GetReview", ctx, int64(77)).Return(nil, store.ErrNotFound)

		err := svc.Delete(ctx, 20, "student", 77)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestVote_SwitchesSides(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	rv := &domain.Review{ID: 77, Upvotes: []int64{30, 31}, Downvotes: []int64{}}
	st.tx.On("GetReview", ctx, int64(77)).Return(rv, nil)
	st.tx.On("UpdateReview", ctx, rv).Return(nil)

	counts, err := svc.Vote(ctx, 30, 77, domain.VoteDown)

	require.NoError(t, err)
	assert.Equal(t, VoteCounts{Upvotes: 1, Downvotes: 1}, counts)
	assert.Equal(t, []int64{31}, rv.Upvotes)
	assert.Equal(t, []int64{30}, rv.Downvotes)
}

func TestListBySkill_AttachesReviewers(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.On("ListReviewsBySkill", ctx, int64(1), 10, 0).Return([]domain.Review{{ID: 1, StudentID: 20}}, int64(1), nil)

	list, total, err := svc.ListBySkill(ctx, 1, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Sam", list[0].Student.DisplayName)
}
