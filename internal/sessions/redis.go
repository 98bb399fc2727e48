package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/speedx-ps/subscriber-hub/internal/config"
	"github.com/speedx-ps/subscriber-hub/internal/models"
)

const keyPrefix = "speedx:session:"

// RedisStore хранит сессии в Redis без срока жизни:
// сессия живёт до явного выхода пользователя.
type RedisStore struct {
	Db *redis.Client
}

// NewRedisStore подключается к Redis и возвращает готовое хранилище сессий.
func NewRedisStore(ctx context.Context, cfg config.RedisConnection) (*RedisStore, error) {
	const op = "sessions.NewRedisStore"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{Db: db}, nil
}

// Get возвращает сохранённую сессию пользователя или ErrNoSession.
func (s *RedisStore) Get(ctx context.Context, username string) (*models.Session, error) {
	const op = "sessions.Get"
	val, err := s.Db.Get(ctx, keyPrefix+username).Result()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var session models.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

// Set сохраняет сессию пользователя, перезаписывая существующую.
func (s *RedisStore) Set(ctx context.Context, session models.Session) error {
	const op = "sessions.Set"
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Set(ctx, keyPrefix+session.Username, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет сохранённую сессию пользователя.
func (s *RedisStore) Delete(ctx context.Context, username string) error {
	const op = "sessions.Delete"
	if err := s.Db.Del(ctx, keyPrefix+username).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
