package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkraev/lingobook/config"
	"github.com/dkraev/lingobook/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps the authenticated-user snapshot for each session
// token. Sessions expire after the configured TTL.
type RedisSessionStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisSessionStore(cfg config.RedisConfig, sessionTTL time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		sessionTTL: sessionTTL,
	}
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, token string, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(token), payload, s.sessionTTL).Err()
}

func (s *RedisSessionStore) GetSession(ctx context.Context, token string) (*domain.User, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnknownSession
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
