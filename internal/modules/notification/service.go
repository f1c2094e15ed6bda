package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/events"
	"campuscollab/internal/pkg/apperror"
	"campuscollab/internal/store"

	"github.com/rs/zerolog"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var ErrNotificationNotFound = apperror.NotFound("Notification not found")

type Service struct {
	store  Store
	pusher Pusher
	log    zerolog.Logger
}

func NewService(s Store, pusher Pusher, log zerolog.Logger) *Service {
	return &Service{store: s, pusher: pusher, log: log}
}

// Create stores n and pushes it to the user's live connection, if any.
func (s *Service) Create(ctx context.Context, n *domain.Notification) error {
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.Push(n.UserID, n)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	list, err := s.store.ListNotifications(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	if list == nil {
		list = []domain.Notification{}
	}
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	err := s.store.MarkRead(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.store.MarkAllRead(ctx, userID)
}

// HandleBookingCompleted tells both parties their session is over and asks
// them for a review.
func (s *Service) HandleBookingCompleted(ctx context.Context, ev events.BookingCompleted) error {
	users, err := s.store.GetUsersByIDs(ctx, []int64{ev.StudentID, ev.TutorID})
	if err != nil {
		return fmt.Errorf("load booking parties: %w", err)
	}
	student, tutor := users[ev.StudentID], users[ev.TutorID]
	if student == nil || tutor == nil {
		s.log.Warn().Int64("booking_id", ev.BookingID).Msg("booking party missing, skipping completion notifications")
		return nil
	}

	data := map[string]any{"bookingId": ev.BookingID, "skillId": ev.SkillID}
	for _, pair := range [][2]*domain.User{{student, tutor}, {tutor, student}} {
		recipient, other := pair[0], pair[1]
		n := &domain.Notification{
			UserID:  recipient.ID,
			Type:    domain.NotifBookingCompleted,
			Title:   "Session completed",
			Message: fmt.Sprintf("Your session with %s is completed. Please leave a review!", other.DisplayName),
			Data:    data,
		}
		if err := s.Create(ctx, n); err != nil {
			return fmt.Errorf("notify user %d: %w", recipient.ID, err)
		}
	}
	return nil
}

// Cleanup deletes read notifications created before now minus retention.
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteReadBefore(ctx, time.Now().Add(-retention))
}
