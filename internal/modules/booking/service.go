package booking

import (
	"context"
	"errors"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/events"
	"campuscollab/internal/store"

	"github.com/rs/zerolog/log"
)

type Service struct {
	store  Store
	events EventPublisher
}

func NewService(s Store, events EventPublisher) *Service {
	return &Service{store: s, events: events}
}

// CreateBooking validates the request against the skill's availability and
// the bookings already on that date, then stores it as pending. The check
// and the insert share one atomic unit of the store.
func (s *Service) CreateBooking(ctx context.Context, requesterID int64, req CreateBookingRequest) (*domain.Booking, error) {
	var created *domain.Booking

	err := s.store.AtomicBooking(ctx, req.SkillID, func(tx store.BookingTx) error {
		skill, err := tx.GetSkill(ctx, req.SkillID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrSkillNotFound
		}
		if err != nil {
			return err
		}

		existing, err := tx.ListBookingsForSkillOnDate(ctx, skill.ID, req.Date)
		if err != nil {
			return err
		}

		b, err := domain.PlanBooking(skill, requesterID, domain.BookingRequest{
			SkillID:   req.SkillID,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Notes:     req.Notes,
		}, existing)
		if err != nil {
			return err
		}

		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.populate(ctx, []*domain.Booking{created}); err != nil {
		return nil, err
	}
	return created, nil
}

// ListBookings returns the requester's bookings as student, as tutor, or on
// either side when party is empty, ordered by date then start time.
func (s *Service) ListBookings(ctx context.Context, userID int64, party store.Party) ([]domain.Booking, error) {
	if party == "" {
		party = store.PartyAny
	}
	list, err := s.store.ListBookingsForUser(ctx, userID, party)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*domain.Booking, len(list))
	for i := range list {
		ptrs[i] = &list[i]
	}
	if err := s.populate(ctx, ptrs); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) GetBooking(ctx context.Context, userID, id int64) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(userID) {
		return nil, ErrNotParty
	}
	if err := s.populate(ctx, []*domain.Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus moves the booking along the status machine. Only the tutor
// may do it. Entering completed publishes booking.completed; a publish
// failure is logged and does not fail the transition.
func (s *Service) UpdateStatus(ctx context.Context, userID, id int64, next domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.TutorID != userID {
		return nil, ErrNotTutor
	}

	if _, err := b.Status.Transition(next); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateBookingStatus(ctx, id, next)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	if next == domain.BookingCompleted && s.events != nil {
		ev := events.BookingCompleted{
			BookingID:   updated.ID,
			SkillID:     updated.SkillID,
			StudentID:   updated.StudentID,
			TutorID:     updated.TutorID,
			CompletedAt: time.Now().UTC(),
		}
		if err := s.events.PublishBookingCompleted(ctx, ev); err != nil {
			log.Error().Err(err).Int64("booking_id", updated.ID).Msg("publish booking.completed failed")
		}
	}

	if err := s.populate(ctx, []*domain.Booking{updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// populate attaches skill (with tutor) and student summaries.
func (s *Service) populate(ctx context.Context, list []*domain.Booking) error {
	if len(list) == 0 {
		return nil
	}
	skillIDs := make([]int64, 0, len(list))
	userIDs := make([]int64, 0, 2*len(list))
	for _, b := range list {
		skillIDs = append(skillIDs, b.SkillID)
		userIDs = append(userIDs, b.StudentID, b.TutorID)
	}

	skills, err := s.store.GetSkillsByIDs(ctx, skillIDs)
	if err != nil {
		return err
	}
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return err
	}

	for _, b := range list {
		if sk, ok := skills[b.SkillID]; ok {
			b.Skill = sk.Summary()
			b.Skill.Tutor = users[b.TutorID].Summary()
		}
		b.Student = users[b.StudentID].Summary()
	}
	return nil
}
