package skill

import (
	"context"
	"errors"
	"testing"

	"campuscollab/internal/domain"
	"campuscollab/internal/pkg/apperror"
	"campuscollab/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateSkill(ctx context.Context, s *domain.Skill) error {
	args := m.Called(ctx, s)
	s.ID = 42
	return args.Error(0)
}

func (m *MockStore) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *MockStore) GetSkillsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Skill, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]*domain.Skill), args.Error(1)
}

func (m *MockStore) UpdateSkill(ctx context.Context, s *domain.Skill) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockStore) DeleteSkill(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListSkills(ctx context.Context, f store.SkillFilter) ([]domain.Skill, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Skill), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) ListSkillsByTutor(ctx context.Context, tutorID int64) ([]domain.Skill, error) {
	args := m.Called(ctx, tutorID)
	return args.Get(0).([]domain.Skill), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	return map[int64]*domain.User{
		10: {ID: 10, DisplayName: "Tia", Role: domain.RoleTutor},
	}, nil
}

func price(v float64) *float64 { return &v }

func validCreate() CreateSkillRequest {
	return CreateSkillRequest{
		Title:        " Guitar basics ",
		Description:  "Chords and strumming",
		Category:     "music",
		Price:        price(0),
		Duration:     60,
		Location:     "online",
		Availability: []SlotInput{{Day: "monday", StartTime: "09:00", EndTime: "12:00"}},
	}
}

func TestCreate_Success(t *testing.T) {
	st := &MockStore{}
	svc := NewService(st)
	ctx := context.Background()

	st.On("GetUser", ctx, int64(10)).Return(&domain.User{ID: 10, DisplayName: "Tia", Role: domain.RoleTutor}, nil)
	st.On("CreateSkill", ctx, mock.AnythingOfType("*domain.Skill")).Return(nil)

	sk, err := svc.Create(ctx, 10, validCreate())

	require.NoError(t, err)
	assert.Equal(t, int64(42), sk.ID)
	assert.Equal(t, "Guitar basics", sk.Title)
	assert.Equal(t, 0.0, sk.Price)
	assert.Equal(t, domain.LocationOnline, sk.Location)
	assert.Equal(t, []domain.AvailabilitySlot{{Day: "monday", StartTime: "09:00", EndTime: "12:00"}}, sk.Availability)
	require.NotNil(t, sk.Tutor)
	assert.Equal(t, "Tia", sk.Tutor.DisplayName)
}

func TestCreate_StudentRejected(t *testing.T) {
	st := &MockStore{}
	svc := NewService(st)
	ctx := context.Background()

	st.On("GetUser", ctx, int64(20)).Return(&domain.User{ID: 20, Role: domain.RoleStudent}, nil)

	_, err := svc.Create(ctx, 20, validCreate())
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
	st.AssertNotCalled(t, "CreateSkill", mock.Anything, mock.Anything)
}

func TestList_PassesFilter(t *testing.T) {
	st := &MockStore{}
	svc := NewService(st)
	ctx := context.Background()

	want := store.SkillFilter{Search: "guitar", Category: "music", MinRating: price(4), Limit: 10, Offset: 20}
	st.On("ListSkills", ctx, want).Return([]domain.Skill{{ID: 1, TutorID: 10}}, int64(21), nil)

	list, total, err := svc.List(ctx, ListQuery{Search: " guitar ", Category: "music", MinRating: price(4)}, 10, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Tia", list[0].Tutor.DisplayName)
}

func TestGet_NotFound(t *testing.T) {
	st := &MockStore{}
	svc := NewService(st)
	ctx := context.Background()

	st.On("GetSkill", ctx, int64(9)).Return(nil, store.ErrNotFound)

	_, err := svc.Get(ctx, 9)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUpdate_PartialByOwner(t *testing.T) {
	st := &MockStore{}
	svc := NewService(st)
	ctx := context.Background()

	stored := &domain.Skill{ID: 1, TutorID: 10, Title: "Guitar", Price: 30, Duration: 60, Location: domain.LocationOnline}
	st.On("GetSkill", ctx, int64(1)).Return(stored, nil)
	st.On("UpdateSkill", ctx, mock.MatchedBy(func(s *domain.Skill) bool {
		return s.Price == 35 && s.Title == "Guitar" && s.Duration == 60
	})).Return(nil)

	sk, err := svc.Update(ctx, 10, 1, UpdateSkillRequest{Price: price(35)})

	require.NoError(t, err)
	assert.Equal(t, 35.0, sk.Price)
	st.AssertExpectations(t)
}

func TestUpdateAndDelete_NonOwner(t *testing.T) {
	st := &MockStore{}
	svc := NewService(st)
	ctx := context.Background()

	st.On("GetSkill", ctx, int64(1)).Return(&domain.Skill{ID: 1, TutorID: 10}, nil)

	_, err := svc.Update(ctx, 11, 1, UpdateSkillRequest{Price: price(1)})
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	err = svc.Delete(ctx, 11, 1)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	st.AssertNotCalled(t, "UpdateSkill", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "DeleteSkill", mock.Anything, mock.Anything)
}

func TestDelete_Owner(t *testing.T) {
	st := &MockStore{}
	svc := NewService(st)
	ctx := context.Background()

	st.On("GetSkill", ctx, int64(1)).Return(&domain.Skill{ID: 1, TutorID: 10}, nil)
	st.On("DeleteSkill", ctx, int64(1)).Return(nil)

	require.NoError(t, svc.Delete(ctx, 10, 1))
	st.AssertExpectations(t)
}
