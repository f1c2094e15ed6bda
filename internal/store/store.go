// Package store declares the persistence contracts shared by the relational
// (gorm) and document (redis) adapters.
package store

import (
	"context"
	"errors"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/rating"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Party selects which side of a booking a listing is for.
type Party string

const (
	PartyStudent Party = "student"
	PartyTutor   Party = "tutor"
	// PartyAny matches bookings where the user is either side.
	PartyAny Party = "any"
)

type SkillFilter struct {
	Search    string
	Category  string
	Location  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Limit     int
	Offset    int
}

type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	FavoriteSkillIDs(ctx context.Context, userID int64) ([]int64, error)
	// ToggleFavorite adds the pair when absent and removes it otherwise.
	ToggleFavorite(ctx context.Context, userID, skillID int64) (added bool, err error)
}

type SkillStore interface {
	CreateSkill(ctx context.Context, s *domain.Skill) error
	GetSkill(ctx context.Context, id int64) (*domain.Skill, error)
	GetSkillsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Skill, error)
	UpdateSkill(ctx context.Context, s *domain.Skill) error
	// DeleteSkill also drops every favorite pointing at the skill.
	DeleteSkill(ctx context.Context, id int64) error
	ListSkills(ctx context.Context, f SkillFilter) ([]domain.Skill, int64, error)
	ListSkillsByTutor(ctx context.Context, tutorID int64) ([]domain.Skill, error)
}

// BookingTx is the view of the store inside a booking's atomic unit.
type BookingTx interface {
	GetSkill(ctx context.Context, id int64) (*domain.Skill, error)
	ListBookingsForSkillOnDate(ctx context.Context, skillID int64, date string) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, b *domain.Booking) error
}

type BookingStore interface {
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookingsForUser(ctx context.Context, userID int64, party Party) ([]domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	// AtomicBooking runs fn so that no other booking of skillID can be
	// created between fn's conflict check and its insert.
	AtomicBooking(ctx context.Context, skillID int64, fn func(tx BookingTx) error) error
}

// ReviewTx is the view of the store inside a review's atomic unit. The rating
// recompute runs through the same view.
type ReviewTx interface {
	rating.Store
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetReview(ctx context.Context, id int64) (*domain.Review, error)
	GetReviewByBooking(ctx context.Context, bookingID int64) (*domain.Review, error)
	CreateReview(ctx context.Context, r *domain.Review) error
	UpdateReview(ctx context.Context, r *domain.Review) error
	DeleteReview(ctx context.Context, id int64) error
}

type ReviewStore interface {
	GetReview(ctx context.Context, id int64) (*domain.Review, error)
	ListReviewsBySkill(ctx context.Context, skillID int64, limit, offset int) ([]domain.Review, int64, error)
	AtomicReview(ctx context.Context, fn func(tx ReviewTx) error) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

// Store is the full set of contracts a backend provides.
type Store interface {
	UserStore
	SkillStore
	BookingStore
	ReviewStore
	NotificationStore
}
