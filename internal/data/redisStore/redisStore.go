package redisStore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/scanflow/internal/config"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var ErrOffline = errors.New("redis is offline")

var (
	instances = make(map[int]*Store)
	mu        sync.Mutex
	closeOnce sync.Once
)

// Store is a thin wrapper over one redis logical DB.
type Store struct {
	client *redis.Client
	DB     int
	logger *logger_i.Logger
}

func options(db int) *redis.Options {
	return &redis.Options{
		Addr:                  config.GetEnv("REDIS_ADDR", config.RedisAddr),
		Password:              config.GetEnv("REDIS_PASSWORD", config.RedisPassword),
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           config.RedisReadTimeout,
		WriteTimeout:          config.RedisWriteTimeout,
	}
}

// GetRedisStore returns the shared store for db, connecting on first use.
// Clients are closed once ctx is done.
func GetRedisStore(ctx context.Context, db int) (*Store, error) {
	mu.Lock()
	defer mu.Unlock()
	if s, ok := instances[db]; ok {
		return s, nil
	}

	s := newStore(redis.NewClient(options(db)), db)
	pingCtx, cancel := context.WithTimeout(ctx, config.RedisPingTimeout)
	defer cancel()
	if err := s.client.Ping(pingCtx).Err(); err != nil {
		s.logger.Error("Redis is offline", "addr", s.client.Options().Addr, "error", err)
		_ = s.client.Close()
		return nil, fmt.Errorf("%w: %w", ErrOffline, err)
	}
	s.logger.Info("Redis store connected", "addr", s.client.Options().Addr)

	instances[db] = s
	closeOnce.Do(func() { go closeAll(ctx) })
	return s, nil
}

func newStore(client *redis.Client, db int) *Store {
	return &Store{
		client: client,
		DB:     db,
		logger: logger_i.NewLogger(fmt.Sprintf("RedisStore:%d", db)),
	}
}

func closeAll(ctx context.Context) {
	<-ctx.Done()
	mu.Lock()
	defer mu.Unlock()
	for db, s := range instances {
		if err := s.client.Close(); err != nil {
			s.logger.Error("Error closing redis client", "error", err)
		}
		delete(instances, db)
	}
}

// NewTestStore wraps an existing client, e.g. one pointed at miniredis.
func NewTestStore(client *redis.Client) *Store {
	return newStore(client, client.Options().DB)
}
