package docstore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"

	"github.com/redis/go-redis/v9"
)

// userDoc keeps the password hash, which the domain type hides from JSON.
type userDoc struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{User: *u, PasswordHash: u.PasswordHash}
}

func (d userDoc) toDomain() *domain.User {
	u := d.User
	u.PasswordHash = d.PasswordHash
	return &u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	id, err := s.nextID(ctx, "user")
	if err != nil {
		return err
	}
	u.Email = normalizeEmail(u.Email)

	ok, err := s.rdb.SetNX(ctx, s.key("user", "email", u.Email), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrDuplicate
	}

	u.ID = id
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	return s.putDoc(ctx, s.key("user", id), toUserDoc(u))
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var d userDoc
	if err := s.getDoc(ctx, s.key("user", id), &d); err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.rdb.Get(ctx, s.key("user", "email", normalizeEmail(email))).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.key("user", id))
	}
	docs, err := getDocs[userDoc](ctx, s.rdb, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]*domain.User, len(docs))
	for _, d := range docs {
		out[d.ID] = d.toDomain()
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	current, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return err
	}
	current.DisplayName = u.DisplayName
	current.PhotoURL = u.PhotoURL
	current.Bio = u.Bio
	current.UpdatedAt = now()
	return s.putDoc(ctx, s.key("user", u.ID), toUserDoc(current))
}

func (s *Store) FavoriteSkillIDs(ctx context.Context, userID int64) ([]int64, error) {
	raw, err := s.rdb.ZRange(ctx, s.key("user", userID, "favorites"), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return parseIDs(raw), nil
}

func (s *Store) ToggleFavorite(ctx context.Context, userID, skillID int64) (bool, error) {
	favKey := s.key("user", userID, "favorites")
	byKey := s.key("skill", skillID, "favoredby")
	member := strconv.FormatInt(skillID, 10)

	removed, err := s.rdb.ZRem(ctx, favKey, member).Result()
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, s.rdb.SRem(ctx, byKey, userID).Err()
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, favKey, zMember(time.Now(), member))
	pipe.SAdd(ctx, byKey, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}
