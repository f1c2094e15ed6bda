package docstore

import (
	"context"
	"strconv"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"

	"github.com/redis/go-redis/v9"
)

func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	id, err := s.nextID(ctx, "notification")
	if err != nil {
		return err
	}
	n.ID = id
	n.CreatedAt = now()
	if err := s.putDoc(ctx, s.key("notification", id), n); err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, s.key("notifications", "user", n.UserID), zMember(n.CreatedAt, id))
	pipe.ZAdd(ctx, s.key("notifications"), zMember(n.CreatedAt, id))
	if !n.Read {
		pipe.SAdd(ctx, s.key("notifications", "unread", n.UserID), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.rdb.ZRevRange(ctx, s.key("notifications", "user", userID), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return s.notificationsByIDs(ctx, raw)
}

func (s *Store) notificationsByIDs(ctx context.Context, ids []string) ([]domain.Notification, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.key("notification", id))
	}
	out, err := getDocs[domain.Notification](ctx, s.rdb, keys)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

func (s *Store) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.rdb.SCard(ctx, s.key("notifications", "unread", userID)).Result()
}

func (s *Store) MarkRead(ctx context.Context, userID, id int64) error {
	var n domain.Notification
	if err := s.getDoc(ctx, s.key("notification", id), &n); err != nil {
		return err
	}
	if n.UserID != userID {
		return store.ErrNotFound
	}
	if n.Read {
		return nil
	}
	n.Read = true
	if err := s.putDoc(ctx, s.key("notification", id), n); err != nil {
		return err
	}
	return s.rdb.SRem(ctx, s.key("notifications", "unread", userID), id).Err()
}

func (s *Store) MarkAllRead(ctx context.Context, userID int64) error {
	unreadKey := s.key("notifications", "unread", userID)
	raw, err := s.rdb.SMembers(ctx, unreadKey).Result()
	if err != nil {
		return err
	}
	list, err := s.notificationsByIDs(ctx, raw)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Read = true
		if err := s.putDoc(ctx, s.key("notification", list[i].ID), list[i]); err != nil {
			return err
		}
	}
	return s.rdb.Del(ctx, unreadKey).Err()
}

func (s *Store) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	raw, err := s.rdb.ZRangeByScore(ctx, s.key("notifications"), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(before.UnixMicro(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}
	list, err := s.notificationsByIDs(ctx, raw)
	if err != nil {
		return 0, err
	}

	var deleted int64
	pipe := s.rdb.TxPipeline()
	for _, n := range list {
		if !n.Read {
			continue
		}
		id := strconv.FormatInt(n.ID, 10)
		pipe.Del(ctx, s.key("notification", id))
		pipe.ZRem(ctx, s.key("notifications"), id)
		pipe.ZRem(ctx, s.key("notifications", "user", n.UserID), id)
		deleted++
	}
	if deleted == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return deleted, nil
}
