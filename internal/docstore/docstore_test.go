package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/rating"
	"campuscollab/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, WithPrefix("test:")), mr
}

func TestUsers(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Email: " Ann@Example.com", PasswordHash: "hash", DisplayName: "Ann", Role: domain.RoleTutor}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	err := s.CreateUser(ctx, &domain.User{Email: "ann@example.com", PasswordHash: "x", DisplayName: "Dup"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, "Ann", got.DisplayName)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got.Bio = "hello"
	require.NoError(t, s.UpdateUser(ctx, got))
	users, err := s.GetUsersByIDs(ctx, []int64{u.ID, 999})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "hello", users[u.ID].Bio)
	assert.Equal(t, "hash", users[u.ID].PasswordHash)
}

func TestSkillsAndFavorites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	mk := func(title string, price float64) *domain.Skill {
		sk := &domain.Skill{TutorID: 1, Title: title, Description: "about " + title, Category: "music", Price: price, Duration: 60, Location: domain.LocationOnline}
		require.NoError(t, s.CreateSkill(ctx, sk))
		return sk
	}
	guitar := mk("Guitar", 20)
	mk("Piano", 50)
	mk("Bass guitar", 80)

	list, total, err := s.ListSkills(ctx, store.SkillFilter{Search: "guitar", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	min := 30.0
	list, total, err = s.ListSkills(ctx, store.SkillFilter{MinPrice: &min, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)

	byTutor, err := s.ListSkillsByTutor(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byTutor, 3)

	added, err := s.ToggleFavorite(ctx, 5, guitar.ID)
	require.NoError(t, err)
	assert.True(t, added)
	ids, err := s.FavoriteSkillIDs(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{guitar.ID}, ids)

	require.NoError(t, s.DeleteSkill(ctx, guitar.ID))
	ids, err = s.FavoriteSkillIDs(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, ids)
	_, err = s.GetSkill(ctx, guitar.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBookings(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, start := range []string{"11:00", "09:00"} {
		err := s.AtomicBooking(ctx, 1, func(tx store.BookingTx) error {
			return tx.CreateBooking(ctx, &domain.Booking{SkillID: 1, StudentID: 2, TutorID: 3, Date: "2030-01-07", StartTime: start, EndTime: start, Status: domain.BookingPending})
		})
		require.NoError(t, err)
	}

	day, err := s.ListBookingsForSkillOnDate(ctx, 1, "2030-01-07")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "09:00", day[0].StartTime)

	mine, err := s.ListBookingsForUser(ctx, 3, store.PartyTutor)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	b, err := s.UpdateBookingStatus(ctx, day[0].ID, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	_, err = s.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBookings_ListForUserBothSides(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBooking(ctx, &domain.Booking{SkillID: 1, StudentID: 2, TutorID: 3, Date: "2030-01-08", StartTime: "09:00", EndTime: "10:00", Status: domain.BookingPending}))
	require.NoError(t, s.CreateBooking(ctx, &domain.Booking{SkillID: 4, StudentID: 3, TutorID: 5, Date: "2030-01-07", StartTime: "09:00", EndTime: "10:00", Status: domain.BookingPending}))
	require.NoError(t, s.CreateBooking(ctx, &domain.Booking{SkillID: 4, StudentID: 6, TutorID: 5, Date: "2030-01-07", StartTime: "11:00", EndTime: "12:00", Status: domain.BookingPending}))

	all, err := s.ListBookingsForUser(ctx, 3, store.PartyAny)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2030-01-07", all[0].Date)
	assert.Equal(t, "2030-01-08", all[1].Date)

	asStudent, err := s.ListBookingsForUser(ctx, 3, store.PartyStudent)
	require.NoError(t, err)
	require.Len(t, asStudent, 1)
	assert.Equal(t, int64(4), asStudent[0].SkillID)
}

func TestAtomicBooking_Serializes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	inside := 0
	maxInside := 0

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.AtomicBooking(ctx, 7, func(tx store.BookingTx) error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()
				time.Sleep(5 * time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
}

func TestAtomicBooking_LockTimeout(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set("test:lock:skill:9:bookings", "someone-else"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.AtomicBooking(ctx, 9, func(tx store.BookingTx) error { return nil })
	assert.True(t, errors.Is(err, ErrLockTimeout))
}

func TestReviewsAndRatings(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tutor := &domain.User{Email: "t@example.com", PasswordHash: "x", DisplayName: "T", Role: domain.RoleTutor}
	require.NoError(t, s.CreateUser(ctx, tutor))
	sk := &domain.Skill{TutorID: tutor.ID, Title: "Chess", Price: 10, Duration: 30, Location: domain.LocationHybrid}
	require.NoError(t, s.CreateSkill(ctx, sk))

	var created []*domain.Review
	for i, r := range []int{5, 3, 4} {
		rv := &domain.Review{BookingID: int64(i + 1), SkillID: sk.ID, StudentID: 50, TutorID: tutor.ID, Rating: r, Comment: "solid session"}
		err := s.AtomicReview(ctx, func(tx store.ReviewTx) error {
			if err := tx.CreateReview(ctx, rv); err != nil {
				return err
			}
			return rating.Recompute(ctx, tx, rating.Skill(sk.ID), rating.User(tutor.ID))
		})
		require.NoError(t, err)
		created = append(created, rv)
	}

	err := s.AtomicReview(ctx, func(tx store.ReviewTx) error {
		return tx.CreateReview(ctx, &domain.Review{BookingID: 1, SkillID: sk.ID, Rating: 1})
	})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	gotSkill, err := s.GetSkill(ctx, sk.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, gotSkill.Rating)
	assert.Equal(t, 3, gotSkill.ReviewCount)

	require.NoError(t, s.AtomicReview(ctx, func(tx store.ReviewTx) error {
		if err := tx.DeleteReview(ctx, created[1].ID); err != nil {
			return err
		}
		return rating.Recompute(ctx, tx, rating.Skill(sk.ID), rating.User(tutor.ID))
	}))

	gotUser, err := s.GetUser(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, gotUser.Rating)
	assert.Equal(t, 2, gotUser.ReviewCount)
	assert.Equal(t, "x", gotUser.PasswordHash)

	_, err = s.GetReviewByBooking(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)

	page, total, err := s.ListReviewsBySkill(ctx, sk.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, created[2].ID, page[0].ID)
}

func TestNotifications(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateNotification(ctx, &domain.Notification{UserID: 1, Type: domain.NotifBookingCompleted, Title: "t", Message: "m"}))
	}
	require.NoError(t, s.CreateNotification(ctx, &domain.Notification{UserID: 2, Type: domain.NotifBookingCompleted}))

	n, err := s.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	list, err := s.ListNotifications(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.ErrorIs(t, s.MarkRead(ctx, 2, list[0].ID), store.ErrNotFound)
	require.NoError(t, s.MarkRead(ctx, 1, list[0].ID))
	n, err = s.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, s.MarkAllRead(ctx, 1))
	n, err = s.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	deleted, err := s.DeleteReadBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	left, err := s.ListNotifications(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
