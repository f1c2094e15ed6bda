// Package docstore is the document store adapter: every entity is a JSON
// document in Redis, with sets and sorted sets as secondary indexes.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campuscollab/internal/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL  = 10 * time.Second
	lockRetryPeriod = 20 * time.Millisecond
)

var ErrLockTimeout = errors.New("docstore: lock not acquired")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Store struct {
	rdb     *redis.Client
	prefix  string
	lockTTL time.Duration
}

type Option func(*Store)

// WithPrefix namespaces every key, e.g. "campuscollab:".
func WithPrefix(p string) Option {
	return func(s *Store) { s.prefix = p }
}

func WithLockTTL(d time.Duration) Option {
	return func(s *Store) { s.lockTTL = d }
}

func New(rdb *redis.Client, opts ...Option) *Store {
	s := &Store{rdb: rdb, lockTTL: defaultLockTTL}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (s *Store) key(parts ...any) string {
	k := s.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += fmt.Sprint(p)
	}
	return k
}

func (s *Store) nextID(ctx context.Context, entity string) (int64, error) {
	return s.rdb.Incr(ctx, s.key("seq", entity)).Result()
}

func (s *Store) putDoc(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, 0).Err()
}

func (s *Store) getDoc(ctx context.Context, key string, v any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// getDocs loads the documents for keys in order, skipping missing ones.
func getDocs[T any](ctx context.Context, rdb *redis.Client, keys []string) ([]T, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func parseIDs(raw []string) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		if id, err := strconv.ParseInt(r, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// withLock holds the named lock for the duration of fn. Other holders are
// waited for until ctx is done.
func (s *Store) withLock(ctx context.Context, name string, fn func() error) error {
	key := s.key("lock", name)
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryPeriod)
	defer ticker.Stop()
	for {
		ok, err := s.rdb.SetNX(ctx, key, token, s.lockTTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %s: %v", ErrLockTimeout, name, ctx.Err())
			}
			return err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %v", ErrLockTimeout, name, ctx.Err())
		case <-ticker.C:
		}
	}
	defer releaseScript.Run(context.WithoutCancel(ctx), s.rdb, []string{key}, token)

	return fn()
}

func now() time.Time { return time.Now().UTC() }

var _ store.Store = (*Store)(nil)

func zMember(t time.Time, member any) redis.Z {
	return redis.Z{Score: float64(t.UnixMicro()), Member: member}
}
