package skill

import (
	"context"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"
)

type Store interface {
	store.SkillStore
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}
