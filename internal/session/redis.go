package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ecommerce-storefront/internal/models"
)

const redisOpTimeout = 3 * time.Second

// RedisStore keeps the session in redis, one key per persisted value.
// Useful when the client runs in a container with no stable filesystem.
type RedisStore struct {
	C         *redis.Client
	Namespace string
	Log       zerolog.Logger
}

func NewRedisStore(addr, namespace string, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		C:         redis.NewClient(&redis.Options{Addr: addr}),
		Namespace: namespace,
		Log:       log,
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.C.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.C.Close()
}

func (s *RedisStore) tokenKey() string { return "storefront:" + s.Namespace + ":token" }
func (s *RedisStore) cartKey() string  { return "storefront:" + s.Namespace + ":cart" }

func (s *RedisStore) Load() (Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	sess := Session{Cart: []models.CartItem{}}

	token, err := s.C.Get(ctx, s.tokenKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Session{}, fmt.Errorf("load token: %w", err)
	}
	sess.Token = token

	raw, err := s.C.Get(ctx, s.cartKey()).Result()
	if errors.Is(err, redis.Nil) {
		return sess, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("load cart: %w", err)
	}
	var cart []models.CartItem
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.Log.Warn().Err(err).Msg("malformed persisted cart, starting empty")
		return sess, nil
	}
	if cart != nil {
		sess.Cart = cart
	}
	return sess, nil
}

func (s *RedisStore) SaveToken(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.C.Set(ctx, s.tokenKey(), token, 0).Err()
}

func (s *RedisStore) ClearToken() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.C.Del(ctx, s.tokenKey()).Err()
}

func (s *RedisStore) SaveCart(cart []models.CartItem) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.C.Set(ctx, s.cartKey(), data, 0).Err()
}

func (s *RedisStore) ClearCart() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.C.Del(ctx, s.cartKey()).Err()
}
