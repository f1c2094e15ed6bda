package repository

import (
	"context"
	"fmt"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/rating"
	"campuscollab/internal/store"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        int64                      `gorm:"column:id;primaryKey"`
	BookingID int64                      `gorm:"column:booking_id;uniqueIndex;not null"`
	SkillID   int64                      `gorm:"column:skill_id;index;not null"`
	StudentID int64                      `gorm:"column:student_id;not null"`
	TutorID   int64                      `gorm:"column:tutor_id;index;not null"`
	Rating    int                        `gorm:"column:rating;not null"`
	Comment   string                     `gorm:"column:comment;not null"`
	Upvotes   datatypes.JSONSlice[int64] `gorm:"column:upvotes;not null"`
	Downvotes datatypes.JSONSlice[int64] `gorm:"column:downvotes;not null"`
	CreatedAt time.Time                  `gorm:"column:created_at;index"`
	UpdatedAt time.Time                  `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		BookingID: m.BookingID,
		SkillID:   m.SkillID,
		StudentID: m.StudentID,
		TutorID:   m.TutorID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		Upvotes:   nonNil(m.Upvotes),
		Downvotes: nonNil(m.Downvotes),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toReviewModel(r *domain.Review) reviewModel {
	return reviewModel{
		ID:        r.ID,
		BookingID: r.BookingID,
		SkillID:   r.SkillID,
		StudentID: r.StudentID,
		TutorID:   r.TutorID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Upvotes:   datatypes.NewJSONSlice(nonNil(r.Upvotes)),
		Downvotes: datatypes.NewJSONSlice(nonNil(r.Downvotes)),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func (r *ReviewRepository) CreateReview(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) GetReviewByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainReview(m), nil
}

// UpdateReview writes rating, comment and both vote sets.
func (r *ReviewRepository) UpdateReview(ctx context.Context, rv *domain.Review) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&reviewModel{}).Where("id = ?", rv.ID).Updates(map[string]any{
		"rating":     rv.Rating,
		"comment":    rv.Comment,
		"upvotes":    datatypes.NewJSONSlice(nonNil(rv.Upvotes)),
		"downvotes":  datatypes.NewJSONSlice(nonNil(rv.Downvotes)),
		"updated_at": now,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	rv.UpdatedAt = now
	return nil
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&reviewModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) ListReviewsBySkill(ctx context.Context, skillID int64, limit, offset int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&reviewModel{}).Where("skill_id = ?", skillID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewModel
	q = q.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, total, nil
}

func ratingColumn(t rating.Target) (string, error) {
	switch t.Kind {
	case rating.KindSkill:
		return "skill_id", nil
	case rating.KindUser:
		return "tutor_id", nil
	}
	return "", fmt.Errorf("unknown rating target %q", t.Kind)
}

func (r *ReviewRepository) RatingsFor(ctx context.Context, t rating.Target) ([]int, error) {
	column, err := ratingColumn(t)
	if err != nil {
		return nil, err
	}
	ratings := []int{}
	err = r.db.WithContext(ctx).Model(&reviewModel{}).
		Where(column+" = ?", t.ID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *ReviewRepository) SaveAggregate(ctx context.Context, t rating.Target, agg rating.Aggregate) error {
	var model any
	switch t.Kind {
	case rating.KindSkill:
		model = &skillModel{}
	case rating.KindUser:
		model = &userModel{}
	default:
		return fmt.Errorf("unknown rating target %q", t.Kind)
	}
	// A missing target is not an error: the skill may have been deleted
	// while its reviews remain.
	return r.db.WithContext(ctx).Model(model).Where("id = ?", t.ID).Updates(map[string]any{
		"rating":       agg.Average,
		"review_count": agg.Count,
	}).Error
}

type reviewTx struct {
	*ReviewRepository
	bookings *BookingRepository
}

func (t reviewTx) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return t.bookings.GetBooking(ctx, id)
}

func (r *ReviewRepository) AtomicReview(ctx context.Context, fn func(tx store.ReviewTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reviewTx{
			ReviewRepository: NewReviewRepository(tx),
			bookings:         NewBookingRepository(tx),
		})
	})
}
