package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coursely/course-api/internal/cart"
)

// RedisCartStore persists cart items across sessions under a fixed per-session
// key. The blob holds only {"items": [...]}; drawer and notification state
// reset on reload.
type RedisCartStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl, timeout: 2 * time.Second}
}

type cartBlob struct {
	Items []cart.Item `json:"items"`
}

func (s *RedisCartStore) Load(sessionID string) ([]cart.Item, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	raw, err := s.rdb.Get(ctx, key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var blob cartBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, false, err
	}
	return blob.Items, true, nil
}

func (s *RedisCartStore) Save(sessionID string, items []cart.Item) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	raw, err := json.Marshal(cartBlob{Items: items})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(sessionID), raw, s.ttl).Err()
}

func key(sessionID string) string { return "cart:" + sessionID }

var _ cart.Persistence = (*RedisCartStore)(nil)
