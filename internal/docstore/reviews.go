package docstore

import (
	"context"
	"errors"
	"fmt"

	"campuscollab/internal/domain"
	"campuscollab/internal/rating"
	"campuscollab/internal/store"

	"github.com/redis/go-redis/v9"
)

func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	id, err := s.nextID(ctx, "review")
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, s.key("review", "booking", r.BookingID), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrDuplicate
	}

	r.ID = id
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
	r.Student = nil
	if r.Upvotes == nil {
		r.Upvotes = []int64{}
	}
	if r.Downvotes == nil {
		r.Downvotes = []int64{}
	}
	if err := s.putDoc(ctx, s.key("review", id), r); err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, s.key("reviews", "skill", r.SkillID), zMember(r.CreatedAt, id))
	pipe.SAdd(ctx, s.key("reviews", "tutor", r.TutorID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	var r domain.Review
	if err := s.getDoc(ctx, s.key("review", id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetReviewByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	id, err := s.rdb.Get(ctx, s.key("review", "booking", bookingID)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetReview(ctx, id)
}

func (s *Store) UpdateReview(ctx context.Context, r *domain.Review) error {
	current, err := s.GetReview(ctx, r.ID)
	if err != nil {
		return err
	}
	current.Rating = r.Rating
	current.Comment = r.Comment
	current.Upvotes = r.Upvotes
	current.Downvotes = r.Downvotes
	current.UpdatedAt = now()
	if err := s.putDoc(ctx, s.key("review", r.ID), current); err != nil {
		return err
	}
	r.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	r, err := s.GetReview(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.key("review", id), s.key("review", "booking", r.BookingID))
	pipe.ZRem(ctx, s.key("reviews", "skill", r.SkillID), id)
	pipe.SRem(ctx, s.key("reviews", "tutor", r.TutorID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) ListReviewsBySkill(ctx context.Context, skillID int64, limit, offset int) ([]domain.Review, int64, error) {
	index := s.key("reviews", "skill", skillID)
	total, err := s.rdb.ZCard(ctx, index).Result()
	if err != nil {
		return nil, 0, err
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}
	raw, err := s.rdb.ZRevRange(ctx, index, int64(offset), stop).Result()
	if err != nil {
		return nil, 0, err
	}
	reviews, err := s.reviewsByIDs(ctx, raw)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *Store) reviewsByIDs(ctx context.Context, ids []string) ([]domain.Review, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.key("review", id))
	}
	out, err := getDocs[domain.Review](ctx, s.rdb, keys)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

func (s *Store) RatingsFor(ctx context.Context, t rating.Target) ([]int, error) {
	var ids []string
	var err error
	switch t.Kind {
	case rating.KindSkill:
		ids, err = s.rdb.ZRange(ctx, s.key("reviews", "skill", t.ID), 0, -1).Result()
	case rating.KindUser:
		ids, err = s.rdb.SMembers(ctx, s.key("reviews", "tutor", t.ID)).Result()
	default:
		return nil, fmt.Errorf("unknown rating target %q", t.Kind)
	}
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return ratings, nil
}

// SaveAggregate skips targets that no longer exist.
func (s *Store) SaveAggregate(ctx context.Context, t rating.Target, agg rating.Aggregate) error {
	switch t.Kind {
	case rating.KindSkill:
		sk, err := s.GetSkill(ctx, t.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		sk.Rating, sk.ReviewCount = agg.Average, agg.Count
		return s.putDoc(ctx, s.key("skill", t.ID), sk)
	case rating.KindUser:
		u, err := s.GetUser(ctx, t.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		u.Rating, u.ReviewCount = agg.Average, agg.Count
		return s.putDoc(ctx, s.key("user", t.ID), toUserDoc(u))
	}
	return fmt.Errorf("unknown rating target %q", t.Kind)
}

// AtomicReview holds the review lock so that review writes and the rating
// recompute that follows them do not interleave.
func (s *Store) AtomicReview(ctx context.Context, fn func(tx store.ReviewTx) error) error {
	return s.withLock(ctx, "reviews", func() error {
		return fn(s)
	})
}
