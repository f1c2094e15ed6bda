package rating

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	ratings map[Target][]int
	saved   map[Target]Aggregate
	failOn  Target
}

func newMemStore() *memStore {
	return &memStore{ratings: map[Target][]int{}, saved: map[Target]Aggregate{}}
}

func (m *memStore) RatingsFor(_ context.Context, t Target) ([]int, error) {
	if t == m.failOn {
		return nil, errors.New("boom")
	}
	return m.ratings[t], nil
}

func (m *memStore) SaveAggregate(_ context.Context, t Target, agg Aggregate) error {
	m.saved[t] = agg
	return nil
}

func TestCompute(t *testing.T) {
	assert.Equal(t, Aggregate{Average: 4, Count: 3}, Compute([]int{5, 3, 4}))
	assert.Equal(t, Aggregate{Average: 4.5, Count: 2}, Compute([]int{5, 4}))
	agg := Compute([]int{5, 4, 4})
	assert.InDelta(t, 13.0/3, agg.Average, 1e-12)
	assert.Equal(t, 3, agg.Count)
	assert.Equal(t, Aggregate{}, Compute(nil))
}

func TestRecompute(t *testing.T) {
	s := newMemStore()
	s.ratings[Skill(1)] = []int{5, 3, 4}
	s.ratings[User(7)] = []int{5, 3, 4, 2}

	require.NoError(t, Recompute(context.Background(), s, Skill(1), User(7)))
	assert.Equal(t, Aggregate{Average: 4, Count: 3}, s.saved[Skill(1)])
	assert.Equal(t, Aggregate{Average: 3.5, Count: 4}, s.saved[User(7)])

	// a review was deleted
	s.ratings[Skill(1)] = []int{5, 4}
	require.NoError(t, Recompute(context.Background(), s, Skill(1)))
	assert.Equal(t, Aggregate{Average: 4.5, Count: 2}, s.saved[Skill(1)])

	// all reviews gone
	s.ratings[Skill(1)] = nil
	require.NoError(t, Recompute(context.Background(), s, Skill(1)))
	assert.Equal(t, Aggregate{}, s.saved[Skill(1)])
}

func TestRecompute_Idempotent(t *testing.T) {
	s := newMemStore()
	s.ratings[Skill(2)] = []int{1, 2}
	require.NoError(t, Recompute(context.Background(), s, Skill(2)))
	first := s.saved[Skill(2)]
	require.NoError(t, Recompute(context.Background(), s, Skill(2)))
	assert.Equal(t, first, s.saved[Skill(2)])
}

func TestRecompute_Error(t *testing.T) {
	s := newMemStore()
	s.failOn = User(3)
	err := Recompute(context.Background(), s, User(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user:3")
}
