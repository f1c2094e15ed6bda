// Package rating keeps the derived rating and review count of skills and
// users in step with the reviews that point at them.
package rating

import (
	"context"
	"fmt"
)

type Kind string

const (
	KindSkill Kind = "skill"
	KindUser  Kind = "user"
)

// Target is an entity whose aggregate rating is derived from reviews.
type Target struct {
	Kind Kind
	ID   int64
}

func Skill(id int64) Target { return Target{Kind: KindSkill, ID: id} }
func User(id int64) Target  { return Target{Kind: KindUser, ID: id} }

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

type Aggregate struct {
	Average float64
	Count   int
}

// Store is implemented by every storage adapter inside its atomic unit.
type Store interface {
	RatingsFor(ctx context.Context, t Target) ([]int, error)
	SaveAggregate(ctx context.Context, t Target, agg Aggregate) error
}

// Compute returns the arithmetic mean and count of ratings. No ratings
// yields the zero aggregate.
func Compute(ratings []int) Aggregate {
	if len(ratings) == 0 {
		return Aggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return Aggregate{Average: float64(sum) / float64(len(ratings)), Count: len(ratings)}
}

// Recompute rereads the ratings of each target and stores the fresh
// aggregate. Running it twice gives the same result.
func Recompute(ctx context.Context, s Store, targets ...Target) error {
	for _, t := range targets {
		ratings, err := s.RatingsFor(ctx, t)
		if err != nil {
			return fmt.Errorf("ratings for %s: %w", t, err)
		}
		if err := s.SaveAggregate(ctx, t, Compute(ratings)); err != nil {
			return fmt.Errorf("save aggregate for %s: %w", t, err)
		}
	}
	return nil
}
