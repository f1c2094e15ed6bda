package review

import (
	"context"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"
)

type Store interface {
	store.ReviewStore
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}
