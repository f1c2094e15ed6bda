package review

import (
	"context"
	"errors"

	"campuscollab/internal/domain"
	"campuscollab/internal/rating"
	"campuscollab/internal/store"
)

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

func targetsOf(skillID, tutorID int64) []rating.Target {
	return []rating.Target{rating.Skill(skillID), rating.User(tutorID)}
}

// Create stores a review of a completed booking by its student and
// refreshes the skill and tutor ratings in the same atomic unit.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*domain.Review, error) {
	var created *domain.Review

	err := s.store.AtomicReview(ctx, func(tx store.ReviewTx) error {
		b, err := tx.GetBooking(ctx, req.BookingID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		if b.StudentID != userID {
			return ErrNotReviewer
		}
		if b.Status != domain.BookingCompleted {
			return ErrNotCompleted
		}

		_, err = tx.GetReviewByBooking(ctx, b.ID)
		switch {
		case err == nil:
			return ErrAlreadyReviewed
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		rv := &domain.Review{
			BookingID: b.ID,
			SkillID:   b.SkillID,
			StudentID: userID,
			TutorID:   b.TutorID,
			Rating:    req.Rating,
			Comment:   req.Comment,
			Upvotes:   []int64{},
			Downvotes: []int64{},
		}
		if err := tx.CreateReview(ctx, rv); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrAlreadyReviewed
			}
			return err
		}
		created = rv

		return rating.Recompute(ctx, tx, targetsOf(b.SkillID, b.TutorID)...)
	})
	if err != nil {
		return nil, err
	}

	s.populate(ctx, []*domain.Review{created})
	return created, nil
}

// ListBySkill returns one page of a skill's reviews, newest first.
func (s *Service) ListBySkill(ctx context.Context, skillID int64, limit, offset int) ([]domain.Review, int64, error) {
	list, total, err := s.store.ListReviewsBySkill(ctx, skillID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	ptrs := make([]*domain.Review, len(list))
	for i := range list {
		ptrs[i] = &list[i]
	}
	s.populate(ctx, ptrs)
	return list, total, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateReviewRequest) (*domain.Review, error) {
	var updated *domain.Review

	err := s.store.AtomicReview(ctx, func(tx store.ReviewTx) error {
		rv, err := loadReview(ctx, tx, id)
		if err != nil {
			return err
		}
		if rv.StudentID != userID {
			return ErrNotAuthor
		}

		if req.Rating != nil {
			rv.Rating = *req.Rating
		}
		if req.Comment != nil {
			rv.Comment = *req.Comment
		}
		if err := tx.UpdateReview(ctx, rv); err != nil {
			return err
		}
		updated = rv

		if req.Rating == nil {
			return nil
		}
		return rating.Recompute(ctx, tx, targetsOf(rv.SkillID, rv.TutorID)...)
	})
	if err != nil {
		return nil, err
	}

	s.populate(ctx, []*domain.Review{updated})
	return updated, nil
}

// Delete removes a review. The author and admins may do it.
func (s *Service) Delete(ctx context.Context, userID int64, role string, id int64) error {
	return s.store.AtomicReview(ctx, func(tx store.ReviewTx) error {
		rv, err := loadReview(ctx, tx, id)
		if err != nil {
			return err
		}
		if rv.StudentID != userID && role != string(domain.RoleAdmin) {
			return ErrNotAuthor
		}
		if err := tx.DeleteReview(ctx, id); err != nil {
			return err
		}
		return rating.Recompute(ctx, tx, targetsOf(rv.SkillID, rv.TutorID)...)
	})
}

// Vote places the user in exactly one of the review's vote sets.
func (s *Service) Vote(ctx context.Context, userID, id int64, vote domain.VoteType) (VoteCounts, error) {
	var counts VoteCounts

	err := s.store.AtomicReview(ctx, func(tx store.ReviewTx) error {
		rv, err := loadReview(ctx, tx, id)
		if err != nil {
			return err
		}
		rv.Vote(userID, vote)
		if err := tx.UpdateReview(ctx, rv); err != nil {
			return err
		}
		counts.Upvotes, counts.Downvotes = rv.VoteCounts()
		return nil
	})
	return counts, err
}

func loadReview(ctx context.Context, tx store.ReviewTx, id int64) (*domain.Review, error) {
	rv, err := tx.GetReview(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	return rv, err
}

// populate attaches reviewer summaries. Missing users are left blank.
func (s *Service) populate(ctx context.Context, list []*domain.Review) {
	ids := make([]int64, 0, len(list))
	for _, rv := range list {
		ids = append(ids, rv.StudentID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return
	}
	for _, rv := range list {
		rv.Student = users[rv.StudentID].Summary()
	}
}
