package docstore

import (
	"context"
	"fmt"
	"sort"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"
)

func (s *Store) CreateBooking(ctx context.Context, b *domain.Booking) error {
	id, err := s.nextID(ctx, "booking")
	if err != nil {
		return err
	}
	b.ID = id
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	b.Skill, b.Student = nil, nil
	if err := s.putDoc(ctx, s.key("booking", id), b); err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, s.key("bookings", "skill", b.SkillID, b.Date), id)
	pipe.SAdd(ctx, s.key("bookings", "student", b.StudentID), id)
	pipe.SAdd(ctx, s.key("bookings", "tutor", b.TutorID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := s.getDoc(ctx, s.key("booking", id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBookingsForSkillOnDate(ctx context.Context, skillID int64, date string) ([]domain.Booking, error) {
	raw, err := s.rdb.SMembers(ctx, s.key("bookings", "skill", skillID, date)).Result()
	if err != nil {
		return nil, err
	}
	return s.bookingsByIDs(ctx, raw)
}

// ListBookingsForUser reads one side's index, or the union of both for
// store.PartyAny.
func (s *Store) ListBookingsForUser(ctx context.Context, userID int64, party store.Party) ([]domain.Booking, error) {
	asStudent := s.key("bookings", "student", userID)
	asTutor := s.key("bookings", "tutor", userID)

	var (
		raw []string
		err error
	)
	switch party {
	case store.PartyStudent:
		raw, err = s.rdb.SMembers(ctx, asStudent).Result()
	case store.PartyTutor:
		raw, err = s.rdb.SMembers(ctx, asTutor).Result()
	default:
		raw, err = s.rdb.SUnion(ctx, asStudent, asTutor).Result()
	}
	if err != nil {
		return nil, err
	}
	return s.bookingsByIDs(ctx, raw)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = status
	b.UpdatedAt = now()
	if err := s.putDoc(ctx, s.key("booking", id), b); err != nil {
		return nil, err
	}
	return b, nil
}

// AtomicBooking serializes booking creation per skill with a Redis lock.
func (s *Store) AtomicBooking(ctx context.Context, skillID int64, fn func(tx store.BookingTx) error) error {
	return s.withLock(ctx, fmt.Sprintf("skill:%d:bookings", skillID), func() error {
		return fn(s)
	})
}

// bookingsByIDs loads the bookings ordered by date, then start time.
func (s *Store) bookingsByIDs(ctx context.Context, raw []string) ([]domain.Booking, error) {
	keys := make([]string, 0, len(raw))
	for _, id := range raw {
		keys = append(keys, s.key("booking", id))
	}
	out, err := getDocs[domain.Booking](ctx, s.rdb, keys)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Booking{}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
