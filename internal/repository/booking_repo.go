package repository

import (
	"context"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var lockForUpdate = clause.Locking{Strength: "UPDATE"}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	SkillID    int64     `gorm:"column:skill_id;index:idx_bookings_skill_date;not null"`
	StudentID  int64     `gorm:"column:student_id;index;not null"`
	TutorID    int64     `gorm:"column:tutor_id;index;not null"`
	Date       string    `gorm:"column:date;size:10;index:idx_bookings_skill_date;not null"`
	StartTime  string    `gorm:"column:start_time;size:5;not null"`
	EndTime    string    `gorm:"column:end_time;size:5;not null"`
	TotalPrice float64   `gorm:"column:total_price;not null"`
	Status     string    `gorm:"column:status;not null;default:pending"`
	Notes      *string   `gorm:"column:notes"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}

	return &domain.Booking{
		ID:         m.ID,
		SkillID:    m.SkillID,
		StudentID:  m.StudentID,
		TutorID:    m.TutorID,
		Date:       m.Date,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		TotalPrice: m.TotalPrice,
		Status:     domain.BookingStatus(m.Status),
		Notes:      notes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:         b.ID,
		SkillID:    b.SkillID,
		StudentID:  b.StudentID,
		TutorID:    b.TutorID,
		Date:       b.Date,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		Notes:      optional(b.Notes),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListBookingsForSkillOnDate(ctx context.Context, skillID int64, date string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("skill_id = ? AND date = ?", skillID, date).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) ListBookingsForUser(ctx context.Context, userID int64, party store.Party) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx)
	switch party {
	case store.PartyStudent:
		q = q.Where("student_id = ?", userID)
	case store.PartyTutor:
		q = q.Where("tutor_id = ?", userID)
	default:
		q = q.Where("student_id = ? OR tutor_id = ?", userID, userID)
	}
	var rows []bookingModel
	err := q.
		Order("date ASC").
		Order("start_time ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return r.GetBooking(ctx, id)
}

type bookingTx struct {
	skills   *SkillRepository
	bookings *BookingRepository
}

func (t bookingTx) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	return t.skills.lockSkill(ctx, id)
}

func (t bookingTx) ListBookingsForSkillOnDate(ctx context.Context, skillID int64, date string) ([]domain.Booking, error) {
	return t.bookings.ListBookingsForSkillOnDate(ctx, skillID, date)
}

func (t bookingTx) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return t.bookings.CreateBooking(ctx, b)
}

// AtomicBooking runs fn in a transaction. Reading the skill through the tx
// takes its row lock, so concurrent bookings of one skill queue up behind it.
func (r *BookingRepository) AtomicBooking(ctx context.Context, skillID int64, fn func(tx store.BookingTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bookingTx{
			skills:   NewSkillRepository(tx),
			bookings: NewBookingRepository(tx),
		})
	})
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}
