package notification

import (
	"context"

	"campuscollab/internal/domain"
	"campuscollab/internal/pkg/jwt"
	"campuscollab/internal/store"
)

type Store interface {
	store.NotificationStore
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}

// Pusher delivers a freshly created notification to a connected client.
type Pusher interface {
	Push(userID int64, v any) bool
}

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}
