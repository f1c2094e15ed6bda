package booking

import (
	"context"

	"campuscollab/internal/domain"
	"campuscollab/internal/events"
	"campuscollab/internal/store"
)

type Store interface {
	store.BookingStore
	GetSkillsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Skill, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}

// EventPublisher receives the booking.completed event.
type EventPublisher interface {
	PublishBookingCompleted(ctx context.Context, ev events.BookingCompleted) error
}
